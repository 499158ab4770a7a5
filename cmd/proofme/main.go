package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/proofme/internal/app"
	"github.com/ayusman/proofme/internal/config"
	"github.com/ayusman/proofme/internal/hook"
	"github.com/ayusman/proofme/internal/logger"
	"github.com/ayusman/proofme/internal/server"
	"github.com/ayusman/proofme/internal/store"
	"github.com/ayusman/proofme/internal/tray"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "proofme: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "proofme: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("proofme stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	opts, err := config.SessionOptions(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("failed to load tuning: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	if n, err := st.Attempts().AbandonStale("process restarted"); err != nil {
		logger.Warn("failed to close stale attempts", zap.Error(err))
	} else if n > 0 {
		logger.Info("closed stale attempts", zap.Int64("count", n))
	}

	manager := hook.NewManager(cfg.HookDir)
	if err := manager.Discover(); err != nil {
		logger.Warn("failed to discover hooks", zap.String("dir", cfg.HookDir), zap.Error(err))
	}
	hooks := hook.NewDispatcher(manager, hook.NewExecutor(cfg.HookTimeout))
	defer hooks.Close()

	if cfg.WebDir != "" {
		logger.Info("serving static files", zap.String("dir", cfg.WebDir))
	}

	srv := server.New(server.Config{
		StaticDir: cfg.WebDir,
		Store:     st,
		Hooks:     hooks,
		Options:   opts,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(cfg.Addr)
	}()

	var local *app.App
	if cfg.LocalCamera {
		local, err = app.New(app.Config{
			Store:    st,
			Hooks:    hooks,
			CameraID: cfg.CameraID,
			Options:  opts,
		})
		if err != nil {
			return err
		}
		local.OnError(func(err error) {
			logger.Warn("local verification aborted", zap.Error(err))
		})
		if err := local.Start(); err != nil {
			return err
		}
		defer local.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := make(chan error, 1)
	wait := func() {
		select {
		case <-ctx.Done():
			result <- nil
		case err := <-serveErr:
			result <- err
		}
	}

	if cfg.Tray {
		t := newTray(cfg, local)
		go func() {
			wait()
			t.Quit()
		}()
		t.Run()
		stop()
	} else {
		wait()
	}
	err = <-result

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("server shutdown failed", zap.Error(shutdownErr))
	}

	return err
}

// newTray wires the tray menu to the local pipeline, when there is one.
func newTray(cfg config.Config, local *app.App) *tray.Tray {
	t := tray.New()
	url := browserURL(cfg.Addr)

	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			logger.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
		}
	})

	if local != nil {
		t.SetState(local.State())
		local.OnState(t.SetState)
		t.OnStart(func() { local.StartVerification() })
		t.OnReset(func() { local.ResetVerification() })
	}

	return t
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
