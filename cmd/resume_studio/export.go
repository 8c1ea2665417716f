package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/maya/resume-studio/internal/client"
	"github.com/maya/resume-studio/internal/export"
)

var (
	exportServerURL string
	exportEmail     string
	exportPassword  string
	exportFormat    string
	exportOutDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export [resume-id...]",
	Short: "Export stored resumes to files",
	Long: `Export one or more stored resumes as PDF or JPEG through a running server.
With no resume ids, every resume on the account is exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportServerURL, "server", "http://localhost:8080", "Base URL of the API server")
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "Account email (defaults to RESUME_STUDIO_EMAIL)")
	exportCmd.Flags().StringVar(&exportPassword, "password", "", "Account password (defaults to RESUME_STUDIO_PASSWORD)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "Export format: pdf or jpeg")
	exportCmd.Flags().StringVar(&exportOutDir, "out", ".", "Directory to write artifacts to")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := export.Format(exportFormat)
	if !format.Valid() {
		return fmt.Errorf("unsupported format %q (want pdf or jpeg)", exportFormat)
	}

	email := exportEmail
	if email == "" {
		email = os.Getenv("RESUME_STUDIO_EMAIL")
	}
	password := exportPassword
	if password == "" {
		password = os.Getenv("RESUME_STUDIO_PASSWORD")
	}
	if email == "" || password == "" {
		return fmt.Errorf("account credentials are required (--email/--password or RESUME_STUDIO_EMAIL/RESUME_STUDIO_PASSWORD)")
	}

	ctx := cmd.Context()
	api, err := client.New(exportServerURL)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	if _, err := api.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	ids, err := resolveResumeIDs(cmd, api, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no resumes to export")
	}

	if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Exports render in headless Chrome server-side, so keep concurrency low.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for _, id := range ids {
		g.Go(func() error {
			res, err := api.Export(gctx, id, format)
			if err != nil {
				return fmt.Errorf("export %s: %w", id, err)
			}
			path := filepath.Join(exportOutDir, res.Filename)
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(res.Data))
			return nil
		})
	}
	return g.Wait()
}

// resolveResumeIDs parses the id arguments, or lists the account's resumes
// when none were given.
func resolveResumeIDs(cmd *cobra.Command, api *client.Client, args []string) ([]uuid.UUID, error) {
	if len(args) == 0 {
		summaries, err := api.ListResumes(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("failed to list resumes: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(summaries))
		for _, s := range summaries {
			ids = append(ids, s.ID)
		}
		return ids, nil
	}

	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid resume id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
