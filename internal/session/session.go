// Package session locates the per-session files under ~/.securechat and
// resolves which session a command operates on.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/matheus3301/securechat/internal/config"
)

// DefaultSessionName is used when neither a flag nor config names a session.
const DefaultSessionName = "main"

// HomeEnv overrides the base directory when set.
const HomeEnv = "SECURECHAT_HOME"

// BaseDir returns $SECURECHAT_HOME, or ~/.securechat.
func BaseDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".securechat")
}

// Dir returns the session-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// SocketPath returns the UDS socket path for a session.
func SocketPath(name string) string {
	return filepath.Join(Dir(name), "daemon.sock")
}

// LockPath returns the lock file path for a session.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// LogDir returns the log directory for a session.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// DaemonLogPath returns the securechatd log file path.
func DaemonLogPath(name string) string {
	return filepath.Join(LogDir(name), "securechatd.log")
}

// TUILogPath returns the terminal client log file path.
func TUILogPath(name string) string {
	return filepath.Join(LogDir(name), "securechat.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the session directory tree with proper permissions.
func EnsureDir(name string) error {
	for _, d := range []string{Dir(name), LogDir(name)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

// List returns the names of existing session directories, sorted.
func List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(BaseDir(), "sessions"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Resolve determines the active session name using precedence:
// 1. flagOverride (--session flag)
// 2. default_session in cfg
// 3. "main"
// The result is validated.
func Resolve(flagOverride string, cfg *config.Config) (string, error) {
	name := DefaultSessionName
	switch {
	case flagOverride != "":
		name = flagOverride
	case cfg != nil && cfg.DefaultSession != "":
		name = cfg.DefaultSession
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}
