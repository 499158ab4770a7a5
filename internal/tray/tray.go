// Package tray provides the system tray control for local verification mode.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/proofme/internal/liveness"
)

// Tray represents the system tray application.
type Tray struct {
	onStart func()
	onReset func()
	onOpen  func()
	onQuit  func()
	state   liveness.State
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuStatus   *systray.MenuItem
	menuProgress *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnStart sets the callback for the Start verification menu item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnReset sets the callback for the Reset menu item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnOpen sets the callback for the Open in browser menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("ProofMe")
	systray.SetTooltip("ProofMe liveness verification")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(statusTitle(t.state), "Current challenge")
	t.menuStatus.Disable()
	t.menuProgress = systray.AddMenuItem(progressTitle(t.state), "Hold progress")
	t.menuProgress.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuStart := systray.AddMenuItem("Start verification", "Begin the challenge sequence")
	menuReset := systray.AddMenuItem("Reset", "Return to idle")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in browser...", "Open the verification page")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit ProofMe")

	go func() {
		for {
			select {
			case <-menuStart.ClickedCh:
				t.call(func() func() { return t.onStart })
			case <-menuReset.ClickedCh:
				t.call(func() func() { return t.onReset })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// call runs the callback returned by get outside the lock.
func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	callback := get()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetState updates the status and progress lines. It is safe to call before
// the tray is ready.
func (t *Tray) SetState(state liveness.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = state
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(state))
	}
	if t.menuProgress != nil {
		t.menuProgress.SetTitle(progressTitle(state))
	}
}

// State returns the last state passed to SetState.
func (t *Tray) State() liveness.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func statusTitle(s liveness.State) string {
	switch s.Phase {
	case liveness.PhaseComplete:
		return "Verified ✓"
	case liveness.PhaseActive:
		if s.Current == nil {
			return "Verifying"
		}
		label := s.Current.Label
		if s.Current.Emoji != "" {
			label = s.Current.Emoji + " " + label
		}
		return fmt.Sprintf("Challenge %d/%d: %s", s.CurrentIndex+1, s.Total, label)
	default:
		return "Idle"
	}
}

func progressTitle(s liveness.State) string {
	switch s.Phase {
	case liveness.PhaseActive:
		return fmt.Sprintf("Hold: %.0f%%", s.HoldProgress)
	case liveness.PhaseComplete:
		return fmt.Sprintf("Completed %d/%d", len(s.CompletedIDs), s.Total)
	default:
		return "Not started"
	}
}
