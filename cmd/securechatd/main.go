package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/securechat/internal/config"
	"github.com/matheus3301/securechat/internal/daemon"
	"github.com/matheus3301/securechat/internal/session"
	"go.uber.org/fx"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(session.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sessionName, err := session.Resolve(*sessionFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		daemon.Module(daemon.Params{
			SessionName:   sessionName,
			LogLevel:      cfg.Level(),
			Notifications: cfg.NotificationsEnabled(),
		}),
	)

	app.Run()
}
