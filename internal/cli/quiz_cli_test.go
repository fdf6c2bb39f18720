package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/portfolio"
	"github.com/hmatsuda/quizfolio/internal/question"
	"github.com/hmatsuda/quizfolio/internal/session"
	"github.com/hmatsuda/quizfolio/internal/storage"
)

func newTestCLI(t *testing.T, input string, questions []question.Question) (*QuizCLI, *bytes.Buffer, storage.Store) {
	t.Helper()
	color.NoColor = true

	store := storage.NewMemoryStore(0)
	repo, err := question.NewRepository(store)
	require.NoError(t, err)
	_, err = repo.Insert(context.Background(), questions, question.BatchMeta{Filename: "seed.csv", FileType: "csv"})
	require.NoError(t, err)

	machine := session.NewMachine(repo, history.NewLog(store), portfolio.NewAggregator(store), store)

	var stdout bytes.Buffer
	cli := &QuizCLI{
		machine:      machine,
		stdinReader:  bufio.NewReader(strings.NewReader(input)),
		stdoutWriter: &stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen, color.Bold),
		red:          color.New(color.FgRed, color.Bold),
	}
	return cli, &stdout, store
}

func singleQuestion() []question.Question {
	return []question.Question{
		{
			Topic:         "Networking",
			Text:          "Which service provides a private network?",
			Options:       []string{"VPC", "IAM", "GCS"},
			CorrectAnswer: "VPC",
			Explanation:   "A VPC is a virtual private cloud network.",
			Keywords:      []string{"vpc"},
		},
	}
}

func TestQuizCLI_Session(t *testing.T) {
	ctx := context.Background()

	t.Run("correct answer completes the quiz and enters review", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(t, "1\n", singleQuestion())
		_, err := cli.machine.Start(ctx, session.Filter{}, 1)
		require.NoError(t, err)

		require.NoError(t, cli.Session(ctx))

		output := stdout.String()
		assert.Contains(t, output, "Question 1 of 1")
		assert.Contains(t, output, "[Networking]")
		assert.Contains(t, output, "1. VPC")
		assert.Contains(t, output, "Correct!")
		assert.Contains(t, output, "A VPC is a virtual private cloud network.")
		assert.Contains(t, output, "Score: 1/1 (100%)")
		assert.Equal(t, session.StateReviewing, cli.machine.Session().State)
	})

	t.Run("incorrect answer shows the correct one", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(t, "2\n", singleQuestion())
		_, err := cli.machine.Start(ctx, session.Filter{}, 1)
		require.NoError(t, err)

		require.NoError(t, cli.Session(ctx))

		output := stdout.String()
		assert.Contains(t, output, "Incorrect.")
		assert.Contains(t, output, "The correct answer is: VPC")
		assert.Contains(t, output, "Score: 0/1 (0%)")
	})

	t.Run("out of range input keeps the question unanswered", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(t, "9\n", singleQuestion())
		_, err := cli.machine.Start(ctx, session.Filter{}, 1)
		require.NoError(t, err)

		require.NoError(t, cli.Session(ctx))

		assert.Contains(t, stdout.String(), "Please answer a number between 1 and 3.")
		s := cli.machine.Session()
		assert.Equal(t, session.StateInProgress, s.State)
		assert.Empty(t, s.Answers)
	})

	t.Run("q pauses and keeps the snapshot resumable", func(t *testing.T) {
		cli, stdout, store := newTestCLI(t, "q\n", singleQuestion())
		_, err := cli.machine.Start(ctx, session.Filter{}, 1)
		require.NoError(t, err)

		err = cli.Session(ctx)
		assert.ErrorIs(t, err, errEnd)
		assert.Contains(t, stdout.String(), "Progress saved.")

		_, found, err := store.Get(ctx, session.StorageKey)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("review navigation and finish clear the snapshot", func(t *testing.T) {
		cli, stdout, store := newTestCLI(t, "1\nn\np\nf\n", singleQuestion())
		_, err := cli.machine.Start(ctx, session.Filter{}, 1)
		require.NoError(t, err)

		require.NoError(t, cli.Session(ctx))
		require.NoError(t, cli.Session(ctx))
		require.NoError(t, cli.Session(ctx))
		err = cli.Session(ctx)
		assert.ErrorIs(t, err, errEnd)

		output := stdout.String()
		assert.Contains(t, output, "Review 1 of 1")
		assert.Contains(t, output, " * 1. VPC")
		assert.Contains(t, output, "You answered correctly.")
		assert.Contains(t, output, "Session finished.")
		assert.Nil(t, cli.machine.Session())

		_, found, err := store.Get(ctx, session.StorageKey)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("no active session ends the loop", func(t *testing.T) {
		cli, _, _ := newTestCLI(t, "", singleQuestion())
		assert.ErrorIs(t, cli.Session(ctx), errEnd)
	})
}
