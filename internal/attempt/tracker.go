// Package attempt records verification attempts around a liveness session and
// fans completion events out to hooks.
package attempt

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/hook"
	"github.com/ayusman/proofme/internal/landmark"
	"github.com/ayusman/proofme/internal/liveness"
	"github.com/ayusman/proofme/internal/logger"
	"github.com/ayusman/proofme/internal/store"
)

// Reasons recorded on finished attempts.
const (
	ReasonReset     = "reset"
	ReasonRestarted = "restarted"
	ReasonClosed    = "session closed"
)

// Tracker owns one liveness.Session and mirrors its outcomes into the store.
// Like the session it wraps, it is driven by a single goroutine.
//
// Store and hook failures are logged and never interrupt the session.
type Tracker struct {
	session *liveness.Session
	store   *store.Store
	hooks   *hook.Dispatcher
	log     *zap.Logger

	userComplete func(index int, c liveness.Challenge)

	attemptID string
	open      bool
}

// New creates a Tracker over challenges. A nil store disables recording and
// a nil dispatcher disables hooks.
func New(challenges []liveness.Challenge, opts liveness.Options, st *store.Store, hooks *hook.Dispatcher) (*Tracker, error) {
	t := &Tracker{
		store:        st,
		hooks:        hooks,
		log:          logger.Named("attempt"),
		userComplete: opts.OnChallengeComplete,
	}
	opts.OnChallengeComplete = t.challengeCompleted

	session, err := liveness.NewSession(challenges, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	t.session = session
	return t, nil
}

// Start opens a new attempt and begins the sequence. An attempt still in
// progress is finished as reset first.
func (t *Tracker) Start() liveness.State {
	if t.open {
		t.finish(store.StatusReset, store.EventReset, ReasonRestarted)
	}

	t.attemptID = uuid.New().String()
	t.open = true
	t.record(func(st *store.Store) error {
		if err := st.Attempts().Create(&store.Attempt{
			ID:    t.attemptID,
			Total: len(t.session.Challenges()),
		}); err != nil {
			return err
		}
		return st.Events().Append(&store.Event{AttemptID: t.attemptID, Kind: store.EventStarted})
	})
	t.log.Info("attempt started", zap.String("attempt_id", t.attemptID))

	return t.session.Start()
}

// Reset finishes the open attempt as reset and returns the session to idle.
func (t *Tracker) Reset() liveness.State {
	if t.open {
		t.finish(store.StatusReset, store.EventReset, ReasonReset)
	}
	return t.session.Reset()
}

// Abort records an upstream failure on the open attempt and resets the
// session. The reason is stored with the attempt.
func (t *Tracker) Abort(reason string) liveness.State {
	if t.open {
		t.log.Warn("attempt aborted", zap.String("attempt_id", t.attemptID), zap.String("reason", reason))
		t.finish(store.StatusAborted, store.EventAborted, reason)
	}
	return t.session.Reset()
}

// Close marks an attempt still in progress as abandoned. The session is left
// as is.
func (t *Tracker) Close() {
	if t.open {
		t.finish(store.StatusAbandoned, store.EventAbandoned, ReasonClosed)
	}
}

// ProcessFrame feeds one frame to the session.
func (t *Tracker) ProcessFrame(set landmark.Set) liveness.State {
	return t.session.ProcessFrame(set)
}

// State returns the session snapshot.
func (t *Tracker) State() liveness.State {
	return t.session.State()
}

// Challenges returns the ordered challenge list.
func (t *Tracker) Challenges() []liveness.Challenge {
	return t.session.Challenges()
}

// AttemptID returns the ID of the most recent attempt, or "" before the first
// Start.
func (t *Tracker) AttemptID() string {
	return t.attemptID
}

// InProgress reports whether an attempt is open.
func (t *Tracker) InProgress() bool {
	return t.open
}

func (t *Tracker) challengeCompleted(index int, c liveness.Challenge) {
	completed := index + 1
	fields := []zap.Field{
		zap.String("attempt_id", t.attemptID),
		zap.String("challenge_id", c.ID),
		zap.Int("index", index),
	}
	t.log.Info("challenge completed", fields...)

	idx := index
	t.record(func(st *store.Store) error {
		if err := st.Events().Append(&store.Event{
			AttemptID:      t.attemptID,
			Kind:           store.EventChallengeCompleted,
			ChallengeID:    c.ID,
			ChallengeIndex: &idx,
			Label:          c.Label,
		}); err != nil {
			return err
		}
		return st.Attempts().SetCompleted(t.attemptID, completed)
	})
	t.hooks.Dispatch(hook.Request{
		Event:          hook.EventChallengeCompleted,
		AttemptID:      t.attemptID,
		ChallengeID:    c.ID,
		ChallengeIndex: &idx,
		Label:          c.Label,
	})

	if completed == len(t.session.Challenges()) {
		t.log.Info("attempt verified", zap.String("attempt_id", t.attemptID))
		t.finish(store.StatusVerified, store.EventVerified, "")
		t.hooks.Dispatch(hook.Request{
			Event:     hook.EventVerified,
			AttemptID: t.attemptID,
		})
	}

	if t.userComplete != nil {
		t.userComplete(index, c)
	}
}

// finish closes the open attempt with a terminal status.
func (t *Tracker) finish(status store.AttemptStatus, kind store.EventKind, reason string) {
	completed := len(t.session.State().CompletedIDs)
	id := t.attemptID
	t.open = false

	t.record(func(st *store.Store) error {
		if err := st.Events().Append(&store.Event{AttemptID: id, Kind: kind, Label: reason}); err != nil {
			return err
		}
		return st.Attempts().Finish(id, status, completed, reason)
	})
}

func (t *Tracker) record(fn func(*store.Store) error) {
	if t.store == nil {
		return
	}
	if err := fn(t.store); err != nil {
		t.log.Error("failed to record attempt", zap.String("attempt_id", t.attemptID), zap.Error(err))
	}
}
