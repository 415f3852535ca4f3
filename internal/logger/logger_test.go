package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerAddsCallerAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	l.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if line["message"] != "hello" || line["time"] == nil {
		t.Fatalf("unexpected line: %v", line)
	}
	caller, _ := line["caller"].(string)
	if !strings.HasPrefix(caller, "logger_test.go:") {
		t.Fatalf("caller should be the base file name, got %q", caller)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewLogger(false, path)
	l.Warn().Msg("to file")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("can not read the log file: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Fatalf("log file does not have the line: %s", b)
	}
}
