package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dimasprs/obrolan/internal/auth"
	"github.com/dimasprs/obrolan/internal/backend"
	"github.com/dimasprs/obrolan/internal/feedback"
	"github.com/dimasprs/obrolan/internal/logger"
	"github.com/dimasprs/obrolan/internal/models"
	"github.com/dimasprs/obrolan/internal/quota"
	"github.com/dimasprs/obrolan/internal/session"
	"github.com/dimasprs/obrolan/internal/store"
	"github.com/dimasprs/obrolan/internal/user"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxMultipartMemory = 16 << 20

	emptyTurnMessage     = "Pesan atau gambar tidak boleh kosong"
	missingConvMessage   = "Conversation ID tidak ditemukan"
	quotaDeniedMessage   = "Kuota harian Anda telah habis. Silakan coba lagi besok."
	unauthorizedMessage  = "Unauthorized"
	unknownBackendFormat = "Backend tidak dikenal"
	imageNotSupportedMsg = "Backend ini tidak mendukung input gambar"
)

// TurnStreamer is the orchestrator surface the handler invokes.
type TurnStreamer interface {
	StreamTurn(ctx context.Context, user *models.User, req *session.TurnRequest, sink session.Sink) error
}

// QuotaReader reports the remaining allowance in the current window.
type QuotaReader interface {
	Remaining(ctx context.Context, user *models.User) (int64, error)
}

type ChatHandler struct {
	orchestrator TurnStreamer
	transcripts  store.TranscriptStore
	ledger       QuotaReader
	users        user.Repository
	feedback     feedback.Repository

	// nonStreaming lists backend identifiers whose replies are returned as
	// one JSON object instead of a chunked stream.
	nonStreaming map[string]bool
}

func NewChatHandler(orch TurnStreamer, transcripts store.TranscriptStore, ledger QuotaReader, users user.Repository, fb feedback.Repository, nonStreaming map[string]bool) *ChatHandler {
	return &ChatHandler{
		orchestrator: orch,
		transcripts:  transcripts,
		ledger:       ledger,
		users:        users,
		feedback:     fb,
		nonStreaming: nonStreaming,
	}
}

// Chat accepts one user turn and relays the generated reply. Streaming
// backends produce a text/plain chunk sequence; non-streaming backends
// produce {"response": <text>}.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conversationID := r.FormValue("conversation_id")
	if conversationID == "" {
		http.Error(w, missingConvMessage, http.StatusBadRequest)
		return
	}

	req := &session.TurnRequest{
		ConversationID: conversationID,
		Text:           r.FormValue("message"),
		BackendID:      r.FormValue("backend"),
	}

	if tempStr := r.FormValue("temperature"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 32); err == nil {
			t := float32(temp)
			req.Temperature = &t
		}
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Image = data
		req.ImageMIME = header.Header.Get("Content-Type")
	}

	if h.nonStreaming[req.BackendID] {
		h.chatJSON(w, r, u, req)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	sink := &flushSink{w: w}
	if f, ok := w.(http.Flusher); ok {
		sink.flusher = f
	}

	if err := h.orchestrator.StreamTurn(r.Context(), u, req, sink); err != nil {
		if sink.wrote {
			// Headers and partial content are already on the wire. Abort the
			// connection so the caller sees a truncated transfer instead of a
			// clean end that passes the partial text off as complete.
			logger.Log.Error("stream aborted after partial reply",
				"conversation_id", conversationID,
				"user_id", u.ID,
				"error", err,
			)
			panic(http.ErrAbortHandler)
		}
		writeTurnError(w, err)
	}
}

func (h *ChatHandler) chatJSON(w http.ResponseWriter, r *http.Request, u *models.User, req *session.TurnRequest) {
	sink := &bufferSink{}
	if err := h.orchestrator.StreamTurn(r.Context(), u, req, sink); err != nil {
		writeTurnError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": sink.String()})
}

func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyTurn):
		http.Error(w, emptyTurnMessage, http.StatusBadRequest)
	case errors.Is(err, backend.ErrUnsupported):
		http.Error(w, unknownBackendFormat, http.StatusBadRequest)
	case errors.Is(err, backend.ErrImageInput):
		http.Error(w, imageNotSupportedMsg, http.StatusBadRequest)
	case errors.Is(err, quota.ErrQuotaExceeded):
		http.Error(w, quotaDeniedMessage, http.StatusTooManyRequests)
	default:
		// Upstream and persistence details stay out of the response.
		http.Error(w, internalServerError, http.StatusInternalServerError)
	}
}

type historyEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	conversationID := vars["conversationID"]

	log, err := h.transcripts.History(r.Context(), conversationID, u.ID)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	entries := make([]historyEntry, 0, len(log))
	for _, msg := range log {
		entries = append(entries, historyEntry{Role: string(msg.Role), Text: msg.Text()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	summaries, err := h.transcripts.ListByUser(r.Context(), u.ID)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// NewChat mints a fresh conversation identifier. Storage is created lazily
// on the first turn.
func (h *ChatHandler) NewChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserFromContext(r.Context()); !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"conversation_id": id.String()})
}

func (h *ChatHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	remaining, err := h.ledger.Remaining(r.Context(), u)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"remaining": remaining})
}

func (h *ChatHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	conversationID := vars["conversationID"]

	var body struct {
		Rating models.Rating `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Rating != models.RatingUp && body.Rating != models.RatingDown {
		http.Error(w, "rating must be up or down", http.StatusBadRequest)
		return
	}

	fb := &models.Feedback{
		UserID:         u.ID,
		ConversationID: conversationID,
		Rating:         body.Rating,
		CreatedAt:      time.Now(),
	}
	if err := h.feedback.Record(r.Context(), fb); err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// CreateAPIKey issues a new key for the caller, replacing any previous one.
func (h *ChatHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}
	key := "ob-" + hex.EncodeToString(raw)

	if err := h.users.SetAPIKey(r.Context(), u.ID, key); err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"api_key": key})
}
