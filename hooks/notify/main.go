// Package main provides the notify hook. It appends every event it receives
// to a JSON lines log and, on macOS, can show a desktop notification when an
// attempt is verified.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Request represents the input from the hook executor.
type Request struct {
	Event          string          `json:"event"`
	AttemptID      string          `json:"attempt_id"`
	ChallengeID    string          `json:"challenge_id,omitempty"`
	ChallengeIndex *int            `json:"challenge_index,omitempty"`
	Label          string          `json:"label,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Config         json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the hook's section of hook.json.
type Config struct {
	LogFile string `json:"log_file"`
	Desktop bool   `json:"desktop"`
}

const defaultLogFile = "events.log"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg, err := parseConfig(req.Config)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if err := appendEvent(cfg.LogFile, req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to log event: %v", err))
		return
	}

	if cfg.Desktop && req.Event == "verified" && runtime.GOOS == "darwin" {
		if err := desktopNotification("ProofMe", "Liveness verified"); err != nil {
			writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"log_file": cfg.LogFile})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

func parseConfig(raw json.RawMessage) (Config, error) {
	cfg := Config{LogFile: defaultLogFile}
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	return cfg, nil
}

// appendEvent writes req as one line. Relative paths resolve against the
// hook directory, which is the working directory of a hook run.
func appendEvent(path string, req Request) error {
	req.Config = nil
	line, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// desktopNotification shows a notification through AppleScript.
func desktopNotification(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}
