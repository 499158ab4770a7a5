// Package app runs verification against a local camera: frames are read,
// scored for quality, passed through the face mesh detector and fed to an
// attempt tracker.
package app

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/attempt"
	"github.com/ayusman/proofme/internal/capture"
	"github.com/ayusman/proofme/internal/detector"
	"github.com/ayusman/proofme/internal/hook"
	"github.com/ayusman/proofme/internal/liveness"
	"github.com/ayusman/proofme/internal/logger"
	"github.com/ayusman/proofme/internal/quality"
	"github.com/ayusman/proofme/internal/store"
)

// Pipeline constants.
const (
	// FPS is the capture and processing rate.
	FPS = capture.DefaultFPS
	// QualityInterval is the number of frames between quality reports.
	QualityInterval = 15
	// MaxReadFailures consecutive camera read errors abort the attempt.
	MaxReadFailures = FPS
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Hooks    *hook.Dispatcher
	CameraID int

	// Challenges defaults to liveness.DefaultChallenges and Options to
	// liveness.DefaultOptions when left empty.
	Challenges []liveness.Challenge
	Options    liveness.Options
}

// App owns the camera, the detector and the tracker of local mode.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	tracker  *attempt.Tracker
	log      *zap.Logger

	// mu guards tracker, camera, detector and the pipeline channels.
	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}

	// Owned by the pipeline goroutine.
	frames       int
	readFailures int

	cbMu      sync.RWMutex
	onState   func(liveness.State)
	onQuality func(quality.Report)
	onError   func(error)
}

// New creates an App. The MediaPipe detector is used when its service script
// is installed; otherwise a MockDetector that never sees a face.
func New(config Config) (*App, error) {
	if len(config.Challenges) == 0 {
		config.Challenges = liveness.DefaultChallenges()
	}
	if config.Options.HoldThreshold == 0 {
		config.Options = liveness.DefaultOptions()
	}

	opts := config.Options
	opts.OnChange = nil

	tracker, err := attempt.New(config.Challenges, opts, config.Store, config.Hooks)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		tracker: tracker,
		log:     logger.Named("app"),
	}

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		a.log.Info("using MediaPipe face mesh detection")
	} else {
		a.log.Warn("MediaPipe not available, using mock detector", zap.Error(err))
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// OnState sets the callback invoked with every new session snapshot.
func (a *App) OnState(fn func(liveness.State)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onState = fn
}

// OnQuality sets the callback invoked with periodic image quality reports.
func (a *App) OnQuality(fn func(quality.Report)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onQuality = fn
}

// OnError sets the callback invoked when an upstream failure aborts the
// attempt.
func (a *App) OnError(fn func(error)) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.onError = fn
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It has no effect on a running pipeline
// until the next Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	a.camera.SetFPS(FPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.Info("capture pipeline started", zap.Int("fps", FPS))
	return nil
}

// Stop halts the pipeline, records an unfinished attempt as abandoned and
// releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.tracker.Close()

	if err := a.camera.Close(); err != nil {
		a.log.Warn("failed to close camera", zap.Error(err))
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Warn("failed to close detector", zap.Error(err))
		}
	}

	a.log.Info("capture pipeline stopped")
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopCh != nil
}

// StartVerification opens a new attempt at the first challenge.
func (a *App) StartVerification() liveness.State {
	a.mu.Lock()
	state := a.tracker.Start()
	a.mu.Unlock()

	a.notifyState(state)
	return state
}

// ResetVerification abandons the sequence and returns to idle.
func (a *App) ResetVerification() liveness.State {
	a.mu.Lock()
	state := a.tracker.Reset()
	a.mu.Unlock()

	a.notifyState(state)
	return state
}

// State returns the current session snapshot.
func (a *App) State() liveness.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.State()
}

// AttemptID returns the ID of the most recent attempt.
func (a *App) AttemptID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.AttemptID()
}

// Challenges returns the ordered challenge list.
func (a *App) Challenges() []liveness.Challenge {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.Challenges()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detector
}

func (a *App) notifyState(state liveness.State) {
	a.cbMu.RLock()
	fn := a.onState
	a.cbMu.RUnlock()
	if fn != nil {
		fn(state)
	}
}

func (a *App) notifyQuality(r quality.Report) {
	a.cbMu.RLock()
	fn := a.onQuality
	a.cbMu.RUnlock()
	if fn != nil {
		fn(r)
	}
}

func (a *App) notifyError(err error) {
	a.cbMu.RLock()
	fn := a.onError
	a.cbMu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
