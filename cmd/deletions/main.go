package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tinysteps/internal/analytics"
	"tinysteps/internal/config"
	"tinysteps/internal/database"
	"tinysteps/internal/models"
	"tinysteps/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exportFile is the document handed to the team that processes deletions
type exportFile struct {
	ExportedAt time.Time                `json:"exportedAt"`
	Count      int                      `json:"count"`
	Requests   []models.DeletionRequest `json:"requests"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deletions",
		Short:         "TinySteps deletion handoff tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newEventsCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// openDB connects to the handoff database and applies pending migrations
func openDB(ctx context.Context) (*database.DB, *slog.Logger, error) {
	cfg := config.Load()
	if !cfg.HandoffEnabled() {
		cfg.DatabaseType = "sqlite"
	}
	logger := cfg.NewLogger()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(ctx, cfg.MigrationsPath, logger); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, logger, nil
}

func newListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print deletion requests from the handoff table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			requests, err := repository.NewDeletionRepository(db).List(cmd.Context(), models.DeletionStatus(status))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), requests)
		},
	}
	cmd.Flags().StringVar(&status, "status", string(models.DeletionQueued), "filter by status: queued|exported (empty for all)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	var claim bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write queued deletion requests to a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, logger, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewDeletionRepository(db)
			var requests []models.DeletionRequest
			if claim {
				requests, err = repo.Claim(cmd.Context())
			} else {
				requests, err = repo.List(cmd.Context(), models.DeletionQueued)
			}
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if output == "" {
				output = defaultExportPath(now)
			}
			if err := writeExport(output, requests, now); err != nil {
				return err
			}

			logger.Info("deletion export written", "path", output, "count", len(requests), "claimed", claim)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d request(s) to %s\n", len(requests), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output file path (default: deletions_YYYYMMDD_HHMMSS.json)")
	cmd.Flags().BoolVar(&claim, "claim", false, "mark exported requests so the next export skips them")
	return cmd
}

func newEventsCmd() *cobra.Command {
	var name string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the archived analytics events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			events, err := repository.NewAnalyticsRepository(db).List(cmd.Context(), analytics.EventName(name), limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only events with this name")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of events")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply handoff database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func defaultExportPath(now time.Time) string {
	return fmt.Sprintf("deletions_%s.json", now.Format("20060102_150405"))
}

// writeExport writes requests to path, creating parent directories as needed
func writeExport(path string, requests []models.DeletionRequest, now time.Time) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if requests == nil {
		requests = []models.DeletionRequest{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	doc := exportFile{ExportedAt: now, Count: len(requests), Requests: requests}
	if err := writeJSON(file, doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
