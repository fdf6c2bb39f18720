package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/question"
)

func newQuestionCommand() *cobra.Command {
	questionCommand := &cobra.Command{
		Use:   "question",
		Short: "Manage the question repository",
	}

	questionCommand.AddCommand(
		newQuestionListCommand(),
		newQuestionAddCommand(),
		newQuestionUpdateCommand(),
		newQuestionDeleteCommand(),
		newQuestionStatsCommand(),
	)

	return questionCommand
}

func newQuestionListCommand() *cobra.Command {
	var topic string
	command := &cobra.Command{
		Use:   "list",
		Short: "List questions, newest first",
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

			questions, err := application.repo.ListAll(context.Background())
			if err != nil {
				return fmt.Errorf("repo.ListAll() > %w", err)
			}

			shown := 0
			for _, q := range questions {
				if topic != "" && q.Topic != topic {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
					q.ID, q.Topic, q.Difficulty, q.Status, truncate(q.Text, 60))
				shown++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions\n", shown)
			return nil
		},
	}
	command.Flags().StringVar(&topic, "topic", "", "only list questions from this topic")

	return command
}

func newQuestionAddCommand() *cobra.Command {
	var (
		flags questionFlags
	)
	command := &cobra.Command{
		Use:   "add",
		Short: "Add a single question",
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

			result, err := application.repo.Insert(context.Background(),
				[]question.Question{flags.toQuestion(question.Question{})},
				question.BatchMeta{Filename: "manual", FileType: "manual"})
			if err != nil {
				return fmt.Errorf("repo.Insert() > %w", err)
			}
			if result.Failed > 0 {
				return fmt.Errorf("question rejected: %s", strings.Join(result.Failures[0], ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Question added.")
			return nil
		},
	}
	flags.register(command)

	return command
}

func newQuestionUpdateCommand() *cobra.Command {
	var (
		flags questionFlags
	)
	command := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question id %q: %w", args[0], err)
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
			questions, err := application.repo.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("repo.ListAll() > %w", err)
			}
			var existing *question.Question
			for i := range questions {
				if questions[i].ID == id {
					existing = &questions[i]
					break
				}
			}
			if existing == nil {
				return fmt.Errorf("question %d not found", id)
			}

			updated := flags.merge(cmd, *existing)
			ok, err := application.repo.Update(ctx, updated)
			if err != nil {
				return fmt.Errorf("repo.Update() > %w", err)
			}
			if !ok {
				return fmt.Errorf("question %d not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Question updated.")
			return nil
		},
	}
	flags.register(command)
	command.Flags().String("status", "", "question status (active, inactive, draft)")

	return command
}

func newQuestionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question id %q: %w", args[0], err)
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

			ok, err := application.repo.Delete(context.Background(), id)
			if err != nil {
				return fmt.Errorf("repo.Delete() > %w", err)
			}
			if !ok {
				return fmt.Errorf("question %d not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Question deleted.")
			return nil
		},
	}
}

func newQuestionStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the question repository",
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

			stats, err := application.repo.Stats(context.Background())
			if err != nil {
				return fmt.Errorf("repo.Stats() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total questions: %d\n", stats.TotalQuestions)
			fmt.Fprintf(cmd.OutOrStdout(), "Active questions: %d\n", stats.ActiveQuestions)
			fmt.Fprintf(cmd.OutOrStdout(), "Import batches: %d\n", stats.TotalBatches)
			fmt.Fprintf(cmd.OutOrStdout(), "Topics: %d\n", stats.Topics)
			return nil
		},
	}
}

// questionFlags holds the shared flag set of question add and update.
type questionFlags struct {
	topic       string
	text        string
	options     []string
	answer      string
	explanation string
	keywords    []string
	difficulty  string
}

func (f *questionFlags) register(command *cobra.Command) {
	command.Flags().StringVar(&f.topic, "topic", "", "question topic")
	command.Flags().StringVar(&f.text, "text", "", "question text")
	command.Flags().StringArrayVar(&f.options, "option", nil, "answer option (repeat per option)")
	command.Flags().StringVar(&f.answer, "answer", "", "the correct answer, matching one option exactly")
	command.Flags().StringVar(&f.explanation, "explanation", "", "explanation shown after answering")
	command.Flags().StringSliceVar(&f.keywords, "keywords", nil, "comma separated keywords")
	command.Flags().StringVar(&f.difficulty, "difficulty", "", "difficulty (beginner, intermediate, advanced)")
}

func (f *questionFlags) toQuestion(base question.Question) question.Question {
	base.Topic = f.topic
	base.Text = f.text
	base.Options = f.options
	base.CorrectAnswer = f.answer
	base.Explanation = f.explanation
	base.Keywords = f.keywords
	base.Difficulty = question.Difficulty(f.difficulty)
	return base
}

// merge applies only the flags the user actually set on top of the existing
// question.
func (f *questionFlags) merge(cmd *cobra.Command, existing question.Question) question.Question {
	if cmd.Flags().Changed("topic") {
		existing.Topic = f.topic
	}
	if cmd.Flags().Changed("text") {
		existing.Text = f.text
	}
	if cmd.Flags().Changed("option") {
		existing.Options = f.options
	}
	if cmd.Flags().Changed("answer") {
		existing.CorrectAnswer = f.answer
	}
	if cmd.Flags().Changed("explanation") {
		existing.Explanation = f.explanation
	}
	if cmd.Flags().Changed("keywords") {
		existing.Keywords = f.keywords
	}
	if cmd.Flags().Changed("difficulty") {
		existing.Difficulty = question.Difficulty(f.difficulty)
	}
	if cmd.Flags().Changed("status") {
		status, _ := cmd.Flags().GetString("status")
		existing.Status = question.Status(status)
	}
	return existing
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
