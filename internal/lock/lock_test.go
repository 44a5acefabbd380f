package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireAndRelease(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := Acquire(tmpDir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	h, err := ReadHolder(tmpDir)
	if err != nil {
		t.Fatalf("ReadHolder() error = %v", err)
	}
	if h.PID != os.Getpid() {
		t.Errorf("holder PID = %d, want %d", h.PID, os.Getpid())
	}
	if time.Since(h.Since) > time.Minute {
		t.Errorf("holder time = %v, want recent", h.Since)
	}

	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, FileName)); !os.IsNotExist(err) {
		t.Error("lock file not removed on release")
	}
}

func TestDoubleAcquireFails(t *testing.T) {
	tmpDir := t.TempDir()

	l1, err := Acquire(tmpDir)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer func() { _ = l1.Release() }()

	_, err = Acquire(tmpDir)
	if err == nil {
		t.Fatal("second Acquire() should fail")
	}

	var lockErr *LockHeldError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockHeldError, got %T: %v", err, err)
	}
	if lockErr.PID != os.Getpid() {
		t.Errorf("LockHeldError.PID = %d, want %d", lockErr.PID, os.Getpid())
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	tmpDir := t.TempDir()
	l1, err := Acquire(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l1.Release(); err != nil {
		t.Fatal(err)
	}
	l2, err := Acquire(tmpDir)
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	_ = l2.Release()
}

func TestParseHolder(t *testing.T) {
	h := parseHolder("pid=42\ntime=2026-01-05T10:00:00Z\njunk\n")
	if h.PID != 42 {
		t.Errorf("PID = %d, want 42", h.PID)
	}
	if !h.Since.Equal(time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Since = %v", h.Since)
	}
	if (parseHolder("") != Holder{}) {
		t.Error("empty content should parse to zero Holder")
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	l, err := Acquire(tmpDir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := l.Release(); err != nil {
		t.Errorf("first Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}
