// Package config loads process configuration from the environment and the
// optional liveness tuning file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAddr          = "PROOFME_ADDR"
	EnvDataDir       = "PROOFME_DATA_DIR"
	EnvWebDir        = "PROOFME_WEB_DIR"
	EnvHookDir       = "PROOFME_HOOK_DIR"
	EnvLogLevel      = "PROOFME_LOG_LEVEL"
	EnvCameraID      = "PROOFME_CAMERA_ID"
	EnvLocalCamera   = "PROOFME_LOCAL_CAMERA"
	EnvTray          = "PROOFME_TRAY"
	EnvTuning        = "PROOFME_TUNING"
	EnvHookTimeoutMs = "PROOFME_HOOK_TIMEOUT_MS"
)

// Config holds process-level settings.
type Config struct {
	Addr        string
	DataDir     string
	WebDir      string
	HookDir     string
	LogLevel    string
	CameraID    int
	LocalCamera bool
	Tray        bool
	TuningPath  string
	HookTimeout time.Duration
}

// DBPath returns the SQLite database location inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "proofme.db")
}

// Load reads configuration from the process environment. Values from the
// given dotenv files (".env" when none are named) fill in variables the
// environment does not set. Missing dotenv files are skipped.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	fileValues := make(map[string]string)
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range values {
			if _, ok := fileValues[k]; !ok {
				fileValues[k] = v
			}
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileValues[key]
	}

	return fromLookup(lookup)
}

func fromLookup(lookup func(string) string) (Config, error) {
	cfg := Config{
		Addr:       stringOr(lookup(EnvAddr), ":8080"),
		WebDir:     lookup(EnvWebDir),
		LogLevel:   stringOr(lookup(EnvLogLevel), "info"),
		TuningPath: lookup(EnvTuning),
	}

	cfg.DataDir = lookup(EnvDataDir)
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".proofme")
	}

	cfg.HookDir = stringOr(lookup(EnvHookDir), filepath.Join(cfg.DataDir, "hooks"))

	if cfg.WebDir == "" {
		cfg.WebDir = findWebDir(cfg.DataDir)
	}

	var err error
	if cfg.CameraID, err = intOr(lookup(EnvCameraID), 0); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvCameraID, err)
	}
	if cfg.LocalCamera, err = boolOr(lookup(EnvLocalCamera), false); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLocalCamera, err)
	}
	if cfg.Tray, err = boolOr(lookup(EnvTray), false); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvTray, err)
	}

	timeoutMs, err := intOr(lookup(EnvHookTimeoutMs), 5000)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvHookTimeoutMs, err)
	}
	if timeoutMs <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", EnvHookTimeoutMs, timeoutMs)
	}
	cfg.HookTimeout = time.Duration(timeoutMs) * time.Millisecond

	return cfg, nil
}

// findWebDir searches "web", "../web", "../../web" and <dataDir>/web and
// returns the first existing directory, or "" if none exists.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func stringOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func intOr(v string, fallback int) (int, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func boolOr(v string, fallback bool) (bool, error) {
	if v = strings.TrimSpace(v); v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}
