// Package cli implements the interactive quiz session loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hmatsuda/quizfolio/internal/session"
)

var errEnd = errors.New("end")

// QuizCLI manages the interactive CLI session for a quiz attempt
type QuizCLI struct {
	machine      *session.Machine
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

// NewQuizCLI creates a new interactive quiz CLI
func NewQuizCLI(machine *session.Machine) *QuizCLI {
	return &QuizCLI{
		machine:      machine,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen, color.Bold),
		red:          color.New(color.FgRed, color.Bold),
	}
}

// Run drives quiz sessions until the attempt finishes or an interrupt arrives.
func (cli *QuizCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, progress saved.")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session runs a single step of the quiz: one question while the attempt is
// in progress, or one review screen afterwards.
func (cli *QuizCLI) Session(ctx context.Context) error {
	s := cli.machine.Session()
	if s == nil {
		return errEnd
	}

	switch s.State {
	case session.StateInProgress:
		return cli.askQuestion(ctx)
	case session.StateReviewing:
		return cli.reviewAnswer(ctx)
	default:
		return errEnd
	}
}

func (cli *QuizCLI) askQuestion(ctx context.Context) error {
	s, current, err := cli.machine.Current()
	if err != nil {
		return fmt.Errorf("machine.Current() > %w", err)
	}

	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Question %d of %d", s.CurrentIndex+1, len(s.Questions))
	if current.Topic != "" {
		_, _ = cli.italic.Fprintf(cli.stdoutWriter, "  [%s]", current.Topic)
	}
	fmt.Fprintln(cli.stdoutWriter)
	fmt.Fprintln(cli.stdoutWriter, current.Text)
	for i, option := range current.Options {
		fmt.Fprintf(cli.stdoutWriter, "  %d. %s\n", i+1, option)
	}

	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Answer (1-%d, q to pause): ", len(current.Options))
	input, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	input = strings.TrimSpace(input)

	if input == "q" || input == "quit" {
		fmt.Fprintln(cli.stdoutWriter, "Progress saved. Start a quiz again to resume.")
		return errEnd
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(current.Options) {
		fmt.Fprintf(cli.stdoutWriter, "Please answer a number between 1 and %d.\n", len(current.Options))
		return nil
	}

	answer, err := cli.machine.Submit(ctx, current.Options[choice-1])
	if err != nil {
		return fmt.Errorf("machine.Submit() > %w", err)
	}

	if answer.IsCorrect {
		_, _ = cli.green.Fprintln(cli.stdoutWriter, "Correct!")
	} else {
		_, _ = cli.red.Fprintln(cli.stdoutWriter, "Incorrect.")
		fmt.Fprintf(cli.stdoutWriter, "The correct answer is: %s\n", current.CorrectAnswer)
	}
	if current.Explanation != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, current.Explanation)
	}

	if err := cli.machine.Advance(ctx); err != nil {
		return fmt.Errorf("machine.Advance() > %w", err)
	}

	if s := cli.machine.Session(); s != nil && s.State == session.StateReviewing {
		if err := cli.printScore(); err != nil {
			return err
		}
	}
	return nil
}

func (cli *QuizCLI) printScore() error {
	score, err := cli.machine.Score()
	if err != nil {
		return fmt.Errorf("machine.Score() > %w", err)
	}

	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Quiz complete!")
	fmt.Fprintf(cli.stdoutWriter, "Score: %d/%d (%d%%) in %s\n",
		score.Correct, score.Total, score.Percentage, score.Elapsed.Round(time.Second))
	fmt.Fprintln(cli.stdoutWriter, "Entering review. Use n (next), p (previous), f (finish).")
	return nil
}

func (cli *QuizCLI) reviewAnswer(ctx context.Context) error {
	s := cli.machine.Session()
	reviewed, answer, err := cli.machine.Review()
	if err != nil {
		return fmt.Errorf("machine.Review() > %w", err)
	}

	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Review %d of %d\n", s.ReviewIndex+1, len(s.Questions))
	fmt.Fprintln(cli.stdoutWriter, reviewed.Text)
	for i, option := range reviewed.Options {
		marker := " "
		switch {
		case option == reviewed.CorrectAnswer:
			marker = "*"
		case option == answer.SelectedAnswer:
			marker = ">"
		}
		fmt.Fprintf(cli.stdoutWriter, " %s %d. %s\n", marker, i+1, option)
	}
	if answer.IsCorrect {
		_, _ = cli.green.Fprintln(cli.stdoutWriter, "You answered correctly.")
	} else {
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "You answered: %s\n", answer.SelectedAnswer)
	}
	if reviewed.Explanation != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, reviewed.Explanation)
	}

	_, _ = cli.bold.Fprint(cli.stdoutWriter, "[n/p/f]: ")
	input, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	switch strings.TrimSpace(input) {
	case "n":
		if err := cli.machine.ReviewNext(); err != nil {
			return fmt.Errorf("machine.ReviewNext() > %w", err)
		}
	case "p":
		if err := cli.machine.ReviewPrev(); err != nil {
			return fmt.Errorf("machine.ReviewPrev() > %w", err)
		}
	case "f", "q", "quit":
		if err := cli.machine.Finish(ctx); err != nil {
			return fmt.Errorf("machine.Finish() > %w", err)
		}
		fmt.Fprintln(cli.stdoutWriter, "Session finished.")
		return errEnd
	default:
		fmt.Fprintln(cli.stdoutWriter, "Unknown command. Use n, p or f.")
	}
	return nil
}
