package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmatsuda/quizfolio/internal/cli"
	"github.com/hmatsuda/quizfolio/internal/session"
)

func newQuizCommand() *cobra.Command {
	quizCommand := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz commands for testing certification knowledge",
	}

	quizCommand.AddCommand(newQuizStartCommand())

	return quizCommand
}

func newQuizStartCommand() *cobra.Command {
	var (
		topic   string
		keyword string
		count   int
	)
	command := &cobra.Command{
		Use:   "start",
		Short: "Start a quiz session, resuming an unfinished one if present",
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

			ctx := context.Background()
			machine := session.NewMachine(application.repo, application.answers, application.scores, application.store)

			resumed, err := machine.Resume(ctx)
			if err != nil {
				return fmt.Errorf("machine.Resume() > %w", err)
			}
			if resumed != nil {
				fmt.Printf("Resuming a session with %d questions, %d answered so far.\n",
					len(resumed.Questions), len(resumed.Answers))
			} else {
				if count <= 0 {
					count = cfg.Quiz.QuestionCount
				}
				started, err := machine.Start(ctx, session.Filter{Topic: topic, Keyword: keyword}, count)
				if err != nil {
					return fmt.Errorf("machine.Start() > %w", err)
				}
				fmt.Printf("Starting a session with %d questions.\n", len(started.Questions))
			}

			quizCLI := cli.NewQuizCLI(machine)
			return quizCLI.Run(ctx)
		},
	}
	command.Flags().StringVar(&topic, "topic", "", "only ask questions from this topic")
	command.Flags().StringVar(&keyword, "keyword", "", "only ask questions tagged with this keyword")
	command.Flags().IntVar(&count, "count", 0, "number of questions to ask (defaults to quiz.question_count)")

	return command
}
