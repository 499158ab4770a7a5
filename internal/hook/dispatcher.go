package hook

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/logger"
)

// Dispatcher fans events out to subscribed hooks without blocking the caller.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher over the hooks known to manager.
func NewDispatcher(manager *Manager, executor *Executor) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		log:      logger.Named("hook"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Dispatch starts every hook subscribed to req.Event on its own goroutine and
// returns the number started. A zero timestamp is set to now.
func (d *Dispatcher) Dispatch(req Request) int {
	if d == nil {
		return 0
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	hooks := d.manager.ForEvent(req.Event)
	for _, h := range hooks {
		d.wg.Add(1)
		go d.run(h, req)
	}
	return len(hooks)
}

func (d *Dispatcher) run(h *Hook, req Request) {
	defer d.wg.Done()

	fields := []zap.Field{
		zap.String("hook", h.Manifest.Name),
		zap.String("event", string(req.Event)),
		zap.String("attempt_id", req.AttemptID),
	}

	resp, err := d.executor.Execute(d.ctx, h, req)
	if err != nil {
		d.log.Error("hook failed", append(fields, zap.Error(err))...)
		return
	}
	if !resp.Success {
		d.log.Warn("hook reported failure", append(fields, zap.String("error", resp.Error))...)
		return
	}
	d.log.Debug("hook succeeded", fields...)
}

// Wait blocks until every dispatched hook has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

// Close cancels running hooks and waits for them to exit.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
}
