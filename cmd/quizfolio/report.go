package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/report"
)

func newReportCommand() *cobra.Command {
	var toPDF bool
	command := &cobra.Command{
		Use:   "report",
		Short: "Write a study progress report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			application, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = application.Close()
			}()

			builder := report.NewBuilder(application.scores, application.answers)
			markdown, err := builder.Markdown(context.Background())
			if err != nil {
				return fmt.Errorf("builder.Markdown() > %w", err)
			}

			if err := os.MkdirAll(cfg.Reports.Directory, 0755); err != nil {
				return fmt.Errorf("failed to create %s > %w", cfg.Reports.Directory, err)
			}
			markdownPath := filepath.Join(cfg.Reports.Directory,
				fmt.Sprintf("report-%s.md", time.Now().Format("2006-01-02")))
			if err := os.WriteFile(markdownPath, []byte(markdown), 0644); err != nil {
				return fmt.Errorf("failed to write %s > %w", markdownPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", markdownPath)

			if toPDF {
				pdfPath, err := report.ConvertMarkdownToPDF(markdownPath)
				if err != nil {
					return fmt.Errorf("report.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&toPDF, "pdf", false, "also convert the report to PDF")

	return command
}
