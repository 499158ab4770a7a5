package tray

import (
	"testing"

	"github.com/ayusman/proofme/internal/liveness"
)

func TestStatusTitle(t *testing.T) {
	blink := liveness.DefaultChallenges()[1]

	tests := []struct {
		name  string
		state liveness.State
		want  string
	}{
		{"idle", liveness.State{Phase: liveness.PhaseIdle, Total: 5}, "Idle"},
		{"active", liveness.State{Phase: liveness.PhaseActive, CurrentIndex: 1, Current: &blink, Total: 5}, "Challenge 2/5: 😉 Blink"},
		{"active without challenge", liveness.State{Phase: liveness.PhaseActive}, "Verifying"},
		{"complete", liveness.State{Phase: liveness.PhaseComplete, Complete: true, Total: 5}, "Verified ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusTitle(tt.state); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProgressTitle(t *testing.T) {
	tests := []struct {
		name  string
		state liveness.State
		want  string
	}{
		{"idle", liveness.State{Phase: liveness.PhaseIdle}, "Not started"},
		{"active", liveness.State{Phase: liveness.PhaseActive, HoldProgress: 40}, "Hold: 40%"},
		{"complete", liveness.State{Phase: liveness.PhaseComplete, CompletedIDs: []string{"a", "b"}, Total: 2}, "Completed 2/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progressTitle(tt.state); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTray_SetStateBeforeReady(t *testing.T) {
	tr := New()
	st := liveness.State{Phase: liveness.PhaseActive, CurrentIndex: 2, Total: 5}

	tr.SetState(st)

	if got := tr.State(); got.CurrentIndex != 2 || got.Phase != liveness.PhaseActive {
		t.Errorf("expected stored state, got %+v", got)
	}
}

func TestTray_CallbacksOutsideLock(t *testing.T) {
	tr := New()

	var called bool
	tr.OnStart(func() {
		called = true
		tr.SetState(liveness.State{Phase: liveness.PhaseActive})
	})

	tr.call(func() func() { return tr.onStart })

	if !called {
		t.Error("expected start callback to run")
	}
	if tr.State().Phase != liveness.PhaseActive {
		t.Error("expected callback to be able to update state")
	}
}
