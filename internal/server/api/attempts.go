package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/proofme/internal/store"
)

// Listing limits for GET /api/attempts.
const (
	DefaultAttemptLimit = 50
	MaxAttemptLimit     = 500
)

// AttemptHandler serves the attempt audit log.
type AttemptHandler struct {
	store *store.Store
}

// NewAttemptHandler creates a new AttemptHandler with the given store.
func NewAttemptHandler(s *store.Store) *AttemptHandler {
	return &AttemptHandler{store: s}
}

type listAttemptsResponse struct {
	Attempts []*store.Attempt `json:"attempts"`
}

type attemptResponse struct {
	Attempt *store.Attempt `json:"attempt"`
	Events  []store.Event  `json:"events"`
}

// ServeHTTP routes /api/attempts and /api/attempts/{id}. Both are read-only.
func (h *AttemptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/attempts")
	id = strings.Trim(id, "/")

	if id == "" {
		h.list(w, r)
		return
	}
	if strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.get(w, id)
}

// list handles GET /api/attempts?limit=N, most recent first.
func (h *AttemptHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultAttemptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxAttemptLimit)
	}

	attempts, err := h.store.Attempts().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attempts")
		return
	}
	if attempts == nil {
		attempts = []*store.Attempt{}
	}

	writeJSON(w, http.StatusOK, listAttemptsResponse{Attempts: attempts})
}

// get handles GET /api/attempts/{id} and returns the attempt with its events.
func (h *AttemptHandler) get(w http.ResponseWriter, id string) {
	attempt, err := h.store.Attempts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get attempt")
		return
	}

	events, err := h.store.Events().ListByAttempt(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attempt events")
		return
	}
	if events == nil {
		events = []store.Event{}
	}

	writeJSON(w, http.StatusOK, attemptResponse{Attempt: attempt, Events: events})
}
