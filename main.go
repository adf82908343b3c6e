package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/config"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/report"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/store"
	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/tui"
)

func main() {
	cfg := config.Load()

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI, so logs go to a file next to the db.
	logger, err := fileLogger(filepath.Join(filepath.Dir(dbPath), "prototrack.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := store.New(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	var client *report.Client
	if cfg.ReportsEnabled() {
		client = report.NewClient(cfg.ReportBaseURL, cfg.ReportAPIKey, cfg.ReportTimeout, logger)
	}

	app := tui.NewApp(s, client)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DataDir != "" {
		return filepath.Join(cfg.DataDir, "prototrack.db"), nil
	}
	return store.DefaultDBPath()
}

func fileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
