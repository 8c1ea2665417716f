package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maya/resume-studio/internal/config"
	"github.com/maya/resume-studio/internal/db"
	"github.com/maya/resume-studio/internal/export"
	"github.com/maya/resume-studio/internal/server"
	"github.com/maya/resume-studio/internal/storage/object/local"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for accounts, resume storage, preview and export.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	objects := local.New(cfg.UploadsDir)

	exporter := export.New(export.Options{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.ExportTimeout,
	})

	srv, err := server.New(cfg, database, objects, exporter)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
