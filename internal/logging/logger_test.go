package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewFileOnlyWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "securechat.log")

	logger, err := NewFileOnly(path, "work", zapcore.DebugLevel)
	if err != nil {
		t.Fatalf("NewFileOnly() error = %v", err)
	}
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)[0]
	var entry map[string]any
	if err := json.Unmarshal([]byte(first), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "hello" || entry["session"] != "work" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")

	logger, err := New(path, "main", zapcore.WarnLevel)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("info entry written at warn level")
	}
}
