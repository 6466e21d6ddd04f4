package api

import (
	"github.com/dimasprs/obrolan/internal/auth"
	"github.com/dimasprs/obrolan/internal/config"
	"github.com/gorilla/mux"
)

func SetupRoutes(h *ChatHandler, bh *BillingHandler, authMw *auth.Middleware, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(cfg.FE_BASE_URL))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/login", auth.LoginHandler(cfg)).Methods("GET")
	r.HandleFunc("/callback", auth.CallbackHandler(cfg)).Methods("GET")
	r.HandleFunc("/billing/webhook", bh.Webhook).Methods("POST")

	protected := r.NewRoute().Subrouter()
	protected.Use(authMw.RequireAuth)

	protected.HandleFunc("/chat", h.Chat).Methods("POST")
	protected.HandleFunc("/get_conversations", h.GetConversations).Methods("GET")
	protected.HandleFunc("/get_history/{conversationID}", h.GetHistory).Methods("GET")
	protected.HandleFunc("/new_chat", h.NewChat).Methods("POST")
	protected.HandleFunc("/quota", h.GetQuota).Methods("GET")
	protected.HandleFunc("/conversations/{conversationID}/feedback", h.PostFeedback).Methods("POST")
	protected.HandleFunc("/api-key", h.CreateAPIKey).Methods("POST")

	return r
}
