package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/session"
)

func newClearCommand() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "clear",
		Short: "Delete all questions, history and portfolio data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("this deletes all study data; run again with --yes to confirm")
			}

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

			ctx := context.Background()
			if err := application.repo.ClearAll(ctx); err != nil {
				return fmt.Errorf("repo.ClearAll() > %w", err)
			}
			if err := application.answers.Clear(ctx); err != nil {
				return fmt.Errorf("answers.Clear() > %w", err)
			}
			if err := application.scores.Clear(ctx); err != nil {
				return fmt.Errorf("scores.Clear() > %w", err)
			}
			if err := application.store.Delete(ctx, session.StorageKey); err != nil {
				return fmt.Errorf("store.Delete(%s) > %w", session.StorageKey, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return command
}
