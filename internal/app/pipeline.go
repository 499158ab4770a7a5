package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/proofme/internal/capture"
	"github.com/ayusman/proofme/internal/detector"
	"github.com/ayusman/proofme/internal/liveness"
	"github.com/ayusman/proofme/internal/quality"
)

// runPipeline drives step at FPS until stop is closed.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.step()
		}
	}
}

// step processes one camera frame:
//  1. read a frame
//  2. every QualityInterval frames, score its quality
//  3. while verifying, detect the face and feed the first one to the tracker
//
// Detection errors and repeated read failures abort the attempt.
func (a *App) step() {
	a.mu.Lock()
	camera, det := a.camera, a.detector
	verifying := a.tracker.State().Verifying
	a.mu.Unlock()

	frame, err := camera.ReadFrame()
	if err != nil {
		a.readFailed(err, verifying)
		return
	}
	defer frame.Close()
	a.readFailures = 0

	a.frames++
	if a.frames%QualityInterval == 0 {
		a.reportQuality(frame)
	}

	if !verifying || det == nil {
		return
	}

	faces, err := det.Detect(frame)
	if err != nil {
		a.abort(fmt.Errorf("face detection failed: %w", err))
		return
	}

	a.mu.Lock()
	state := a.tracker.ProcessFrame(detector.Primary(faces))
	a.mu.Unlock()

	a.notifyState(state)
}

func (a *App) readFailed(err error, verifying bool) {
	a.readFailures++
	a.log.Debug("failed to read frame", zap.Error(err), zap.Int("consecutive", a.readFailures))

	if verifying && a.readFailures >= MaxReadFailures {
		a.readFailures = 0
		a.abort(fmt.Errorf("camera read failed: %w", err))
	}
}

func (a *App) reportQuality(frame *gocv.Mat) {
	snap, err := capture.Snapshot(frame)
	if err != nil {
		a.log.Debug("failed to snapshot frame", zap.Error(err))
		return
	}

	report := quality.Analyze(snap.Image)
	a.log.Debug("frame quality",
		zap.Float64("lighting", report.Lighting),
		zap.Float64("sharpness", report.Sharpness),
		zap.Float64("contrast", report.Contrast),
		zap.Int("clarity", report.Clarity),
	)
	a.notifyQuality(report)
}

func (a *App) abort(err error) {
	a.mu.Lock()
	var state liveness.State
	wasVerifying := a.tracker.State().Verifying
	if wasVerifying {
		state = a.tracker.Abort(err.Error())
	}
	a.mu.Unlock()

	if !wasVerifying {
		return
	}
	a.log.Warn("verification aborted", zap.Error(err))
	a.notifyError(err)
	a.notifyState(state)
}
