package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/baleybots/go-bal/config"
	"github.com/baleybots/go-bal/eventlog"
	"github.com/baleybots/go-bal/store"
	"github.com/baleybots/go-bal/web"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "Override configured listen port")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal serve [options]

Run the HTTP API and live-parse WebSocket server. Configuration comes
from the YAML file named by BAL_CONFIG (default config/bal.yaml) plus
BAL_* environment overrides.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Web.Port = *port
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logPath := filepath.Join(filepath.Dir(cfg.Store.Path), "events.jsonl")
	evlog, err := eventlog.Open(logPath)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer evlog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting bal server", "version", version, "store", cfg.Store.Path)

	server := web.NewServer(st, evlog, cfg.Web, cfg.Cache.MaxEntries, version, cfg.VisualOptions()...)
	return server.Start(ctx)
}
