package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/matheus3301/securechat/internal/config"
	"github.com/matheus3301/securechat/internal/logging"
	"github.com/matheus3301/securechat/internal/session"
	"github.com/matheus3301/securechat/internal/tui"
	"github.com/matheus3301/securechat/internal/tui/client"
	"go.uber.org/zap"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	flag.Parse()

	configPath := session.ConfigPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sessionName, err := session.Resolve(*sessionFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFileOnly(session.TUILogPath(sessionName), sessionName, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	socketPath := session.SocketPath(sessionName)

	// Probe daemon health; auto-start if needed.
	if !probeDaemon(socketPath) {
		fmt.Fprintf(os.Stderr, "daemon not running for session %q, starting...\n", sessionName)
		logger.Info("starting daemon", zap.String("socket", socketPath))
		if err := startDaemon(sessionName); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start daemon: %v\n", err)
			os.Exit(1)
		}
		if !waitForDaemon(socketPath, 10*time.Second) {
			fmt.Fprintf(os.Stderr, "daemon did not become ready\n")
			os.Exit(1)
		}
	}

	c, err := client.New(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to daemon: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	app := tui.NewApp(c, tui.Options{
		Session:    sessionName,
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
	})
	if err := app.Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// probeDaemon checks if a daemon is running and answering status calls.
func probeDaemon(socketPath string) bool {
	c, err := client.New(socketPath)
	if err != nil {
		return false
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = c.Status(ctx)
	return err == nil
}

func startDaemon(sessionName string) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}
	daemon := filepath.Join(filepath.Dir(executable), "securechatd")

	if _, err := os.Stat(daemon); err != nil {
		daemon = "securechatd"
	}

	cmd := exec.Command(daemon, "--session", sessionName)
	// Inherit stderr so daemon startup errors are visible.
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// waitForDaemon polls the daemon with a real status call, not just a socket connect.
func waitForDaemon(socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probeDaemon(socketPath) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}
