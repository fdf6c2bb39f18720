package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/export"
)

func newExportCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "export",
		Short: "Export all study data to a JSON file",
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

			service := export.NewService(application.repo, application.answers, application.scores)
			data, err := service.Export(context.Background())
			if err != nil {
				return fmt.Errorf("service.Export() > %w", err)
			}

			if output == "" {
				output = fmt.Sprintf("quiz-data-export-%s.json", time.Now().Format("2006-01-02"))
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s > %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	command.Flags().StringVar(&output, "output", "", "output file path (defaults to quiz-data-export-<date>.json)")

	return command
}

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace all study data with a previously exported snapshot",
		Args:  cobra.ExactArgs(1),
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

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s > %w", args[0], err)
			}

			service := export.NewService(application.repo, application.answers, application.scores)
			if err := service.Import(context.Background(), data); err != nil {
				return fmt.Errorf("service.Import() > %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Data restored.")
			return nil
		},
	}
}
