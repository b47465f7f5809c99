// Package api provides the HTTP intake binding: a thin REST surface over the
// flow for local testing and non-Telegram integrations.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avoronin/intakebot/internal/domain"
	"github.com/avoronin/intakebot/internal/flow"
	"github.com/avoronin/intakebot/internal/store"
)

// Handler serves the intake REST API.
type Handler struct {
	flow *flow.Flow
	repo store.Repository
}

// NewHandler creates a new Handler.
func NewHandler(f *flow.Flow, repo store.Repository) *Handler {
	return &Handler{flow: f, repo: repo}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers the intake routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/sessions", h.CreateSession)
	r.Post("/api/sessions/{key}", h.StartSession)
	r.Post("/api/sessions/{key}/messages", h.PostMessage)
	r.Get("/api/cases", h.RecentCases)
	r.Get("/api/cases/count", h.CaseCount)
}

type sessionResponse struct {
	SessionKey string `json:"session_key"`
	Reply      string `json:"reply"`
	Stage      string `json:"stage"`
}

type turnResponse struct {
	Reply string `json:"reply"`
	Stage string `json:"stage"`
	Saved bool   `json:"saved"`
}

// CreateSession starts a dialogue under a server-assigned session key.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	key := uuid.NewString()
	result := h.flow.StartSession(r.Context(), key)
	JSON(w, http.StatusCreated, sessionResponse{
		SessionKey: key,
		Reply:      result.ReplyText,
		Stage:      result.Stage.String(),
	})
}

// StartSession starts (or restarts) a dialogue under a caller-chosen key.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		Error(w, http.StatusBadRequest, "session key is required")
		return
	}
	result := h.flow.StartSession(r.Context(), key)
	JSON(w, http.StatusOK, sessionResponse{
		SessionKey: key,
		Reply:      result.ReplyText,
		Stage:      result.Stage.String(),
	})
}

// PostMessage feeds one user message into the session.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		Error(w, http.StatusBadRequest, "session key is required")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := h.flow.ProcessMessage(r.Context(), key, body.Text)
	JSON(w, http.StatusOK, turnResponse{
		Reply: result.ReplyText,
		Stage: result.Stage.String(),
		Saved: result.Saved,
	})
}

// RecentCases lists stored cases, newest first, for lawyer-side review.
func (h *Handler) RecentCases(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.repo.ListRecentCases(r.Context(), limit)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list cases")
		return
	}
	if records == nil {
		records = []*domain.CaseRecord{}
	}
	JSON(w, http.StatusOK, records)
}

// CaseCount reports the size of the append-only cases table.
func (h *Handler) CaseCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.CountCases(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to count cases")
		return
	}
	JSON(w, http.StatusOK, map[string]int64{"count": count})
}
