package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/erazemk/ornate/internal/api"
	"github.com/erazemk/ornate/internal/client"
	"github.com/erazemk/ornate/internal/collection"
	"github.com/erazemk/ornate/internal/config"
	"github.com/erazemk/ornate/internal/localstore"
	"github.com/erazemk/ornate/internal/web"
)

func newWebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the browser front-end",
		Long: `Run the browser front-end.

With --api-url set the collection lives in the collection service. With an
empty --api-url the collection is kept in a local SQLite database instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := loadConfig(cmd, "web")
			if err != nil {
				return err
			}
			defer closeLog()
			return runWeb(cmd.Context(), cfg.Web)
		},
	}
	config.AddWebFlags(cmd.Flags())
	return cmd
}

func runWeb(ctx context.Context, cfg config.Web) error {
	mode, err := collection.ParseFilterMode(cfg.FilterMode)
	if err != nil {
		return err
	}
	timeout := cfg.RequestTimeout.Duration()

	var collab collection.Collaborator
	var uploader web.Uploader

	if cfg.CollaboratorURL != "" {
		c, err := client.New(cfg.CollaboratorURL, &http.Client{})
		if err != nil {
			return err
		}
		healthCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := c.Health(healthCtx); err != nil {
			slog.Warn("collection service not reachable", "url", cfg.CollaboratorURL, "error", err)
		}
		cancel()
		collab, uploader = c, c
		slog.Info("using collection service", "url", cfg.CollaboratorURL, "filter_mode", mode)
	} else {
		database, err := openDatabase(cfg.LocalDBPath)
		if err != nil {
			return err
		}
		defer database.Close()
		local, err := localstore.Open(ctx, database)
		if err != nil {
			return fmt.Errorf("opening local collection: %w", err)
		}
		collab = local
		slog.Info("using local collection", "path", cfg.LocalDBPath)
	}

	st := collection.New(collab, mode)
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	if err := st.Load(loadCtx); err != nil {
		slog.Warn("initial load failed", "error", err)
	}
	cancel()

	router, err := web.NewRouter(st, uploader, timeout)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	return serve(ctx, newServer(cfg.Addr, api.LoggingMiddleware(router)))
}
