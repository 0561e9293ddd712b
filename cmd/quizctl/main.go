// quizctl is the offline companion of the quiz API: it assembles the
// content document from source fragments and exports it to relational or
// spreadsheet form. The serving process never runs any of this.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nabd-labs/quiz-api/internal/build"
	"github.com/nabd-labs/quiz-api/internal/corpus"
	"github.com/nabd-labs/quiz-api/internal/export"
	"github.com/nabd-labs/quiz-api/internal/platform/config"
	"github.com/nabd-labs/quiz-api/internal/platform/database"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quizctl",
		Short:        "Offline tooling for the quiz content store",
		SilenceUsage: true,
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newExportCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var manifestPath, outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble the content document from source fragments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := build.Run(manifestPath, outPath); err != nil {
				return err
			}
			slog.Info("content document written", "manifest", manifestPath, "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "content/main.yaml", "path of the root build manifest")
	cmd.Flags().StringVar(&outPath, "out", "database/database.json", "path of the output document")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the content document to other formats",
	}

	cmd.AddCommand(newExportPgCmd())
	cmd.AddCommand(newExportXlsxCmd())
	return cmd
}

func newExportPgCmd() *cobra.Command {
	var docPath, databaseURL string

	cmd := &cobra.Command{
		Use:   "pg",
		Short: "Export the document into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if databaseURL != "" {
				cfg.Database.URL = databaseURL
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("no database URL: set --database-url or QUIZ_DATABASE_URL")
			}

			ctx := context.Background()
			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := export.Relational(ctx, db.Pool, doc)
			if err != nil {
				return err
			}
			slog.Info("export complete", "questions", stats.Questions, "skipped_answers", stats.SkippedAnswers)
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "database/database.json", "path of the content document")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to QUIZ_DATABASE_URL)")
	return cmd
}

func newExportXlsxCmd() *cobra.Command {
	var docPath, outPath string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export a denormalized category spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(docPath)
			if err != nil {
				return err
			}
			if err := export.Tabular(doc, outPath); err != nil {
				return err
			}
			slog.Info("spreadsheet written", "out", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "database/database.json", "path of the content document")
	cmd.Flags().StringVar(&outPath, "out", "database/database.xlsx", "path of the output spreadsheet")
	return cmd
}

func loadDocument(path string) (*corpus.Document, error) {
	return corpus.NewStore(path).Document()
}
