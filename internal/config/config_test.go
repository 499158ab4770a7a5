package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnv = []string{
	EnvAddr, EnvDataDir, EnvWebDir, EnvHookDir, EnvLogLevel,
	EnvCameraID, EnvLocalCamera, EnvTray, EnvTuning, EnvHookTimeoutMs,
}

// clearEnv blanks every variable so the host environment cannot leak in.
// Empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "hooks"), cfg.HookDir)
	assert.Equal(t, filepath.Join(dataDir, "proofme.db"), cfg.DBPath())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0, cfg.CameraID)
	assert.False(t, cfg.LocalCamera)
	assert.False(t, cfg.Tray)
	assert.Empty(t, cfg.TuningPath)
	assert.Equal(t, 5*time.Second, cfg.HookTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAddr, "127.0.0.1:9000")
	t.Setenv(EnvDataDir, "/var/lib/proofme")
	t.Setenv(EnvWebDir, "/srv/web")
	t.Setenv(EnvHookDir, "/etc/proofme/hooks")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvCameraID, "2")
	t.Setenv(EnvLocalCamera, "true")
	t.Setenv(EnvTray, "1")
	t.Setenv(EnvTuning, "/etc/proofme/tuning.json")
	t.Setenv(EnvHookTimeoutMs, "1500")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Addr:        "127.0.0.1:9000",
		DataDir:     "/var/lib/proofme",
		WebDir:      "/srv/web",
		HookDir:     "/etc/proofme/hooks",
		LogLevel:    "debug",
		CameraID:    2,
		LocalCamera: true,
		Tray:        true,
		TuningPath:  "/etc/proofme/tuning.json",
		HookTimeout: 1500 * time.Millisecond,
	}, cfg)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAddr)
	os.Unsetenv(EnvLogLevel)
	t.Setenv(EnvDataDir, t.TempDir())

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PROOFME_ADDR=:7070\nPROOFME_LOG_LEVEL=warn\nPROOFME_CAMERA_ID=3\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	t.Run("file fills unset variables", func(t *testing.T) {
		cfg, err := Load(envFile)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Addr)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv(EnvCameraID, "1")
		cfg, err := Load(envFile)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.CameraID)
	})

	t.Run("process environment is not modified", func(t *testing.T) {
		_, err := Load(envFile)
		require.NoError(t, err)
		_, set := os.LookupEnv(EnvAddr)
		assert.False(t, set)
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvCameraID, "front"},
		{EnvLocalCamera, "maybe"},
		{EnvTray, "yes please"},
		{EnvHookTimeoutMs, "abc"},
		{EnvHookTimeoutMs, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvDataDir, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
