package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/auth"
	"github.com/fragmede/iwaraterm/internal/cache"
	"github.com/fragmede/iwaraterm/internal/clipboard"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/logging"
	"github.com/fragmede/iwaraterm/internal/monitor"
	"github.com/fragmede/iwaraterm/internal/ui"
)

const usage = `usage: iwaraterm [video-id | video-url]

Browses the comment threads of an iwara-style site in the terminal.
Configuration is read from .env, <config dir>/iwaraterm/config.yaml and
IWARA_* environment variables.`

func main() {
	startVideo, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		log.Fatalf("opening log: %v", err)
	}
	defer logger.Sync()

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("opening cache", zap.Error(err))
	}
	defer db.Close()

	session, err := auth.NewSession(cfg.BaseURL, cfg.SignReplies, logger.Named("auth"))
	if err != nil {
		logger.Fatal("creating session", zap.Error(err))
	}

	// Scraping shares the session's cookies so the viewer's own comments
	// are marked on every page.
	client, err := api.NewClient(cfg.BaseURL, session.Client(), logger.Named("api"))
	if err != nil {
		logger.Fatal("creating client", zap.Error(err))
	}
	client.SetConcurrency(cfg.FetchConcurrency)

	mon := monitor.New(cfg, client, db, logger)

	logger.Info("starting",
		zap.String("base_url", cfg.BaseURL),
		zap.String("cache", cfg.DBPath),
		zap.String("video", startVideo))

	app := ui.NewApp(cfg, ui.Deps{
		Client:    client,
		Cache:     db,
		Session:   session,
		Monitor:   mon,
		Clipboard: clipboard.System{},
		Logger:    logger,
	}, startVideo)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	app.SetProgram(p)
	if _, err := p.Run(); err != nil {
		mon.Stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	mon.Stop()
}

// parseArgs accepts at most one positional argument: a video id or URL.
func parseArgs(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		if args[0] == "-h" || args[0] == "--help" {
			return "", fmt.Errorf("help requested")
		}
		return api.ParseVideoID(args[0])
	default:
		return "", fmt.Errorf("too many arguments")
	}
}
