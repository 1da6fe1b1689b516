package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"studycopilot/internal/api"
	"studycopilot/internal/config"
	"studycopilot/internal/controller"
	"studycopilot/internal/dashboard"
	"studycopilot/internal/i18n"
	"studycopilot/internal/quiz"
	"studycopilot/internal/repl"
	"studycopilot/internal/results"
	"studycopilot/internal/session"
	"studycopilot/internal/tasks"
	"studycopilot/internal/tui"
)

func main() {
	var (
		configPath string
		serverURL  string
		plain      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.StringVar(&serverURL, "server", "", "StudyCopilot server base URL override")
	flag.BoolVar(&plain, "plain", false, "Plain-text REPL instead of the TUI")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	i18n.Init(cfg.UI.Locale)

	client := api.NewClient(cfg.Server)

	ledger, err := results.Open(cfg.Storage.BaseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open results ledger failed: %v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	ctrl := controller.New(
		session.NewManager(client),
		tasks.NewManager(client),
		dashboard.NewManager(client),
		quiz.NewEngine(client, ledger),
	)

	if plain {
		loop := repl.NewLoop(ctrl, client, ledger, cfg.Interview.DefaultRole)
		if err := loop.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "repl failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Run(ctrl, ledger, cfg.Dashboard.RefreshSeconds, cfg.Interview.DefaultRole); err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}
