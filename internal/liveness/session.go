package liveness

import (
	"fmt"

	"github.com/ayusman/proofme/internal/landmark"
)

// NoFacePolicy decides what a frame without a detected face does to the hold
// counter.
type NoFacePolicy string

const (
	// NoFaceFreeze leaves the counter untouched. An absent face is ambiguous
	// (occlusion or leaving the frame) and does not penalize a held gesture.
	NoFaceFreeze NoFacePolicy = "freeze"
	// NoFaceDecay treats an absent face as an inactive frame.
	NoFaceDecay NoFacePolicy = "decay"
)

// Valid reports whether p is a known policy.
func (p NoFacePolicy) Valid() bool {
	return p == NoFaceFreeze || p == NoFaceDecay
}

// Phase is the coarse state of a session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseActive   Phase = "active"
	PhaseComplete Phase = "complete"
)

// Options configures a Session.
type Options struct {
	HoldThreshold int
	Thresholds    Thresholds
	NoFace        NoFacePolicy

	// OnChallengeComplete fires exactly once per completed challenge, after
	// the session has advanced.
	OnChallengeComplete func(index int, c Challenge)
	// OnChange fires after every state mutation.
	OnChange func(State)
}

// DefaultOptions returns the standard tuning with no callbacks.
func DefaultOptions() Options {
	return Options{
		HoldThreshold: DefaultHoldThreshold,
		Thresholds:    DefaultThresholds(),
		NoFace:        NoFaceFreeze,
	}
}

// State is a read-only snapshot of a session.
type State struct {
	Phase        Phase      `json:"phase"`
	Verifying    bool       `json:"verifying"`
	CurrentIndex int        `json:"current_index"`
	Current      *Challenge `json:"current,omitempty"`
	CompletedIDs []string   `json:"completed_ids"`
	HoldCounter  int        `json:"hold_counter"`
	HoldProgress float64    `json:"hold_progress"`
	Complete     bool       `json:"complete"`
	Total        int        `json:"total"`
}

// Session is the challenge sequence state machine. It is not safe for
// concurrent use; exactly one driver feeds it frames.
type Session struct {
	challenges []Challenge
	classifier *Classifier
	opts       Options

	verifying   bool
	complete    bool
	index       int
	completed   []string
	holdCounter int
}

// NewSession creates an idle session over a copy of challenges.
func NewSession(challenges []Challenge, opts Options) (*Session, error) {
	if err := ValidateChallenges(challenges); err != nil {
		return nil, err
	}
	if opts.HoldThreshold <= 0 {
		return nil, fmt.Errorf("hold threshold must be positive, got %d", opts.HoldThreshold)
	}
	if opts.NoFace == "" {
		opts.NoFace = NoFaceFreeze
	}
	if !opts.NoFace.Valid() {
		return nil, fmt.Errorf("unknown no-face policy %q", opts.NoFace)
	}

	classifier, err := NewClassifier(opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	list := make([]Challenge, len(challenges))
	copy(list, challenges)

	return &Session{
		challenges: list,
		classifier: classifier,
		opts:       opts,
	}, nil
}

// Challenges returns a copy of the session's ordered challenge list.
func (s *Session) Challenges() []Challenge {
	list := make([]Challenge, len(s.challenges))
	copy(list, s.challenges)
	return list
}

// Start begins verification at the first challenge. Calling it while already
// verifying restarts from the beginning.
func (s *Session) Start() State {
	s.clear()
	s.verifying = true
	return s.changed()
}

// Reset returns the session to idle with every derived field cleared.
func (s *Session) Reset() State {
	s.clear()
	return s.changed()
}

func (s *Session) clear() {
	s.verifying = false
	s.complete = false
	s.index = 0
	s.completed = nil
	s.holdCounter = 0
}

// ProcessFrame feeds one frame of landmarks to the active challenge. Frames
// arriving while not verifying are ignored. An empty set means no face was
// detected.
func (s *Session) ProcessFrame(set landmark.Set) State {
	if !s.verifying {
		return s.State()
	}

	var active bool
	if set.Empty() {
		if s.opts.NoFace == NoFaceFreeze {
			return s.State()
		}
	} else {
		active = s.classifier.Detect(s.challenges[s.index].Type, set)
	}

	next, completed := StepHold(s.holdCounter, active, s.opts.HoldThreshold)
	s.holdCounter = next
	if !completed {
		return s.changed()
	}

	done := s.challenges[s.index]
	doneIndex := s.index
	s.completed = append(s.completed, done.ID)

	if s.index+1 < len(s.challenges) {
		s.index++
	} else {
		s.verifying = false
		s.complete = true
	}

	if s.opts.OnChallengeComplete != nil {
		s.opts.OnChallengeComplete(doneIndex, done)
	}
	return s.changed()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := State{
		Verifying:    s.verifying,
		CurrentIndex: s.index,
		CompletedIDs: make([]string, len(s.completed)),
		HoldCounter:  s.holdCounter,
		HoldProgress: HoldProgress(s.holdCounter, s.opts.HoldThreshold),
		Complete:     s.complete,
		Total:        len(s.challenges),
	}
	copy(st.CompletedIDs, s.completed)

	switch {
	case s.complete:
		st.Phase = PhaseComplete
	case s.verifying:
		st.Phase = PhaseActive
		c := s.challenges[s.index]
		st.Current = &c
	default:
		st.Phase = PhaseIdle
	}

	return st
}

func (s *Session) changed() State {
	st := s.State()
	if s.opts.OnChange != nil {
		s.opts.OnChange(st)
	}
	return st
}
