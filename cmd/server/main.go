package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimasprs/obrolan/internal/api"
	"github.com/dimasprs/obrolan/internal/auth"
	"github.com/dimasprs/obrolan/internal/backend"
	"github.com/dimasprs/obrolan/internal/billing"
	"github.com/dimasprs/obrolan/internal/config"
	"github.com/dimasprs/obrolan/internal/db"
	"github.com/dimasprs/obrolan/internal/feedback"
	"github.com/dimasprs/obrolan/internal/quota"
	"github.com/dimasprs/obrolan/internal/session"
	"github.com/dimasprs/obrolan/internal/store"
	"github.com/dimasprs/obrolan/internal/user"
)

const (
	backendGemini   = "gemini"
	backendDeepSeek = "deepseek"
)

func main() {
	cfg := config.Load()

	dbClient := db.NewBunPostgresClient(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	defer dbClient.Close()

	users := user.NewUserRepository(dbClient)
	transcripts := store.NewPostgresStore(dbClient)
	feedbackRepo := feedback.NewFeedbackRepository(dbClient)

	ledger := quota.NewLedger(users)

	gemini, err := backend.NewGemini(cfg.GeminiAPIKey, backend.WithModel(cfg.GeminiModel))
	if err != nil {
		log.Fatalf("Failed to create Gemini backend: %v", err)
	}

	registry := backend.NewRegistry(backendGemini)
	registry.Register(backendGemini, gemini)
	registry.Register(backendDeepSeek, backend.NewDeepSeek(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel))

	orch := session.NewOrchestrator(transcripts, ledger, registry)

	billingSvc := billing.NewBilling(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var customers user.CustomerCreator
	if cfg.StripeSecretKey != "" {
		customers = billingSvc
	}
	userSvc := user.NewUserService(users, customers)

	auth.Configure(cfg)
	jwtVerifier, err := auth.NewJWTVerifier(cfg.WorkOSClientID)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()
	authMw := auth.NewMiddleware(jwtVerifier, userSvc)

	handler := api.NewChatHandler(orch, transcripts, ledger, users, feedbackRepo, map[string]bool{
		backendDeepSeek: true,
	})
	billingHandler := api.NewBillingHandler(billingSvc, users)
	router := api.SetupRoutes(handler, billingHandler, authMw, cfg)

	srv := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Replies stream for as long as the upstream keeps producing, so
		// no fixed write deadline.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
