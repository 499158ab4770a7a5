// Package hook discovers and runs external programs that react to liveness
// attempt events, such as a completed challenge or a verified attempt.
package hook

import (
	"encoding/json"
	"time"
)

// Event names a moment a hook can subscribe to.
type Event string

const (
	EventChallengeCompleted Event = "challenge_completed"
	EventVerified           Event = "verified"
)

// Manifest describes a hook's metadata and subscriptions.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []Event         `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Subscribes reports whether the manifest lists e.
func (m Manifest) Subscribes(e Event) bool {
	for _, ev := range m.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Request is written as JSON to the hook's stdin.
type Request struct {
	Event          Event           `json:"event"`
	AttemptID      string          `json:"attempt_id"`
	ChallengeID    string          `json:"challenge_id,omitempty"`
	ChallengeIndex *int            `json:"challenge_index,omitempty"`
	Label          string          `json:"label,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Config         json.RawMessage `json:"config,omitempty"`
}

// Response is read as JSON from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
