package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erazemk/ornate/internal/api"
	"github.com/erazemk/ornate/internal/blob"
	"github.com/erazemk/ornate/internal/config"
	"github.com/erazemk/ornate/internal/db"
)

func newAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the collection service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := loadConfig(cmd, "api")
			if err != nil {
				return err
			}
			defer closeLog()
			return runAPI(cmd.Context(), cfg.API)
		},
	}
	config.AddAPIFlags(cmd.Flags())
	return cmd
}

func runAPI(ctx context.Context, cfg config.API) error {
	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, images))
	if err := serve(ctx, newServer(cfg.Addr, handler)); err != nil {
		return err
	}
	slog.Info("server stopped, closing database")
	return nil
}

// openDatabase opens path and ensures the schema exists.
func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Setup(path)
	if err != nil {
		return nil, fmt.Errorf("preparing database: %w", err)
	}
	slog.Info("database ready", "path", path)
	return database, nil
}

func newImageStore(ctx context.Context, cfg config.API) (blob.Store, error) {
	if cfg.S3.Bucket != "" {
		s, err := blob.NewS3(ctx, blob.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("storing photos in bucket", "bucket", cfg.S3.Bucket)
		return s, nil
	}

	d, err := blob.NewDir(cfg.ImageDir, cfg.PublicURL+"/images")
	if err != nil {
		return nil, err
	}
	slog.Info("storing photos on disk", "dir", cfg.ImageDir)
	return d, nil
}
