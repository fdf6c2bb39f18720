package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/importer"
	"github.com/hmatsuda/quizfolio/internal/question"
)

func newImportCommand() *cobra.Command {
	importCommand := &cobra.Command{
		Use:   "import",
		Short: "Import questions from files or URLs",
	}

	importCommand.AddCommand(
		newImportFileCommand(),
		newImportURLCommand(),
		newImportBatchesCommand(),
		newImportDeleteBatchCommand(),
		newImportTemplateCommand(),
	)

	return importCommand
}

func newImportFileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Import questions from a CSV, JSON or YAML file",
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

			file, err := importer.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("importer.ParseFile(%s) > %w", args[0], err)
			}
			result, err := application.repo.Insert(cmd.Context(), file.Questions, file.Meta)
			if err != nil {
				return fmt.Errorf("repo.Insert() > %w", err)
			}
			printImportResult(cmd, result)
			return nil
		},
	}
}

func newImportURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Download and import a question file",
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

			fetcher := importer.NewHTTPFetcher(uint(cfg.Import.RetryAttempts))
			return runImportURL(cmd, application.repo, fetcher, args[0])
		},
	}
}

func runImportURL(cmd *cobra.Command, repo *question.Repository, fetcher importer.Fetcher, fileURL string) error {
	ctx := cmd.Context()
	contents, filename, err := fetcher.Fetch(ctx, fileURL)
	if err != nil {
		return fmt.Errorf("fetcher.Fetch(%s) > %w", fileURL, err)
	}

	file, err := importer.Parse(contents, filename)
	if err != nil {
		return fmt.Errorf("importer.Parse(%s) > %w", filename, err)
	}
	result, err := repo.Insert(ctx, file.Questions, file.Meta)
	if err != nil {
		return fmt.Errorf("repo.Insert() > %w", err)
	}
	printImportResult(cmd, result)
	return nil
}

func printImportResult(cmd *cobra.Command, result question.InsertResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d questions (batch %s)\n",
		result.Success, result.Total, result.BatchID)
	if result.Failed == 0 {
		return
	}

	rows := make([]int, 0, len(result.Failures))
	for row := range result.Failures {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		for _, message := range result.Failures[row] {
			fmt.Fprintf(cmd.OutOrStdout(), "  record %d: %s\n", row+1, message)
		}
	}
}

func newImportBatchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "List import batches",
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

			batches, err := application.repo.ListBatches(context.Background())
			if err != nil {
				return fmt.Errorf("repo.ListBatches() > %w", err)
			}
			for _, batch := range batches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d ok, %d failed\n",
					batch.ID, batch.ImportDate.Format("2006-01-02 15:04"),
					batch.Filename, batch.SuccessCount, batch.FailedCount)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d batches\n", len(batches))
			return nil
		},
	}
}

func newImportDeleteBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-batch <id>",
		Short: "Delete an import batch and every question it brought in",
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

			if err := application.repo.DeleteBatch(context.Background(), args[0]); err != nil {
				return fmt.Errorf("repo.DeleteBatch(%s) > %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Batch deleted.")
			return nil
		},
	}
}

func newImportTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <csv|json>",
		Short: "Print an import file template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := importer.Template(args[0])
			if err != nil {
				return fmt.Errorf("importer.Template(%s) > %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), template)
			return nil
		},
	}
}
