package api

import (
	"net/http"

	"github.com/ayusman/proofme/internal/liveness"
)

// ChallengeHandler serves the configured challenge sequence.
type ChallengeHandler struct {
	challenges    []liveness.Challenge
	holdThreshold int
}

// NewChallengeHandler creates a ChallengeHandler over a copy of challenges.
func NewChallengeHandler(challenges []liveness.Challenge, holdThreshold int) *ChallengeHandler {
	list := make([]liveness.Challenge, len(challenges))
	copy(list, challenges)
	return &ChallengeHandler{challenges: list, holdThreshold: holdThreshold}
}

type listChallengesResponse struct {
	Challenges    []liveness.Challenge `json:"challenges"`
	HoldThreshold int                  `json:"hold_threshold"`
}

// ServeHTTP handles GET /api/challenges.
func (h *ChallengeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, listChallengesResponse{
		Challenges:    h.challenges,
		HoldThreshold: h.holdThreshold,
	})
}
