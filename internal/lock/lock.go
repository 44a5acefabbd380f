// Package lock guards a session directory with an advisory flock so only
// one daemon serves a session at a time.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// FileName is the lock file created inside the session directory.
const FileName = "LOCK"

// LockHeldError is returned when another process holds the session lock.
type LockHeldError struct {
	PID  int
	Path string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("session lock held by PID %d (%s)", e.PID, e.Path)
}

// Holder describes the process recorded in a lock file.
type Holder struct {
	PID   int
	Since time.Time
}

// Lock represents an acquired session lock file.
type Lock struct {
	file *os.File
	path string
}

// Acquire attempts to acquire an exclusive lock on the session directory.
// Returns LockHeldError if another process already holds it.
func Acquire(sessionDir string) (*Lock, error) {
	lockPath := filepath.Join(sessionDir, FileName)

	if err := os.MkdirAll(sessionDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		h, _ := ReadHolder(sessionDir)
		_ = f.Close()
		return nil, &LockHeldError{PID: h.PID, Path: lockPath}
	}

	if err := writeHolder(f, Holder{PID: os.Getpid(), Since: time.Now().UTC()}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{file: f, path: lockPath}, nil
}

// Release releases the lock. Safe to call on nil receiver.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	// Remove before close so a new holder never sees our stale contents.
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadHolder reports the process recorded in the session's lock file. The
// lock itself is not tested.
func ReadHolder(sessionDir string) (Holder, error) {
	data, err := os.ReadFile(filepath.Join(sessionDir, FileName))
	if err != nil {
		return Holder{}, err
	}
	return parseHolder(string(data)), nil
}

func writeHolder(f *os.File, h Holder) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f, "pid=%d\ntime=%s\n", h.PID, h.Since.Format(time.RFC3339))
	return err
}

func parseHolder(content string) Holder {
	var h Holder
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			h.PID, _ = strconv.Atoi(value)
		case "time":
			h.Since, _ = time.Parse(time.RFC3339, value)
		}
	}
	return h
}
