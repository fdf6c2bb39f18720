// Package session drives one quiz attempt from start through review. A
// session freezes a random subset of the active questions at start time,
// walks it strictly forward while answers are submitted, and switches to a
// read-only review phase once the last question is answered.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/question"
	"github.com/hmatsuda/quizfolio/internal/storage"
)

// StorageKey is the store key holding the resumable session snapshot.
const StorageKey = "current-session"

var (
	// ErrNoActiveSession is returned when an operation needs a session
	// and none has been started.
	ErrNoActiveSession = errors.New("session: no active session")
	// ErrNoMatchingQuestions is returned by Start when the filter selects
	// an empty pool. No session is created.
	ErrNoMatchingQuestions = errors.New("session: no questions match the filter")
	// ErrAlreadyAnswered is returned when the current question has
	// already been answered in this session.
	ErrAlreadyAnswered = errors.New("session: current question already answered")
	// ErrNotAnswered is returned by Advance before the current question
	// has an answer.
	ErrNotAnswered = errors.New("session: current question not answered yet")
	// ErrWrongState is returned when an operation does not apply to the
	// session's current state.
	ErrWrongState = errors.New("session: operation not allowed in this state")
)

// State is the lifecycle phase of a session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateReviewing  State = "reviewing"
	StateFinished   State = "finished"
)

// Filter selects the question pool for a new session. Topic and Keyword are
// mutually exclusive; leaving both empty selects every active question.
type Filter struct {
	Topic   string `json:"topic,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

func (f Filter) matches(q question.Question) bool {
	if f.Topic != "" {
		return q.Topic == f.Topic
	}
	if f.Keyword != "" {
		for _, keyword := range q.Keywords {
			if keyword == f.Keyword {
				return true
			}
		}
		return false
	}
	return true
}

// Session is one quiz attempt. Questions are a snapshot frozen at start time:
// repository edits made while the session runs do not affect it.
type Session struct {
	Questions    []question.Question  `json:"questions"`
	CurrentIndex int                  `json:"current_index"`
	StartTime    time.Time            `json:"start_time"`
	Answers      []history.UserAnswer `json:"answers"`
	ReviewIndex  int                  `json:"review_index"`
	State        State                `json:"state"`
	Filter       Filter               `json:"filter"`
}

// Score is the result summary derivable at any point of a session.
type Score struct {
	Total      int
	Correct    int
	Percentage int
	Elapsed    time.Duration
}

// QuestionSource supplies the active question pool at session start.
type QuestionSource interface {
	ListActive(ctx context.Context) ([]question.Question, error)
}

// AnswerSink receives every submitted answer for the global history.
type AnswerSink interface {
	Append(ctx context.Context, answer history.UserAnswer) error
}

// ScoreKeeper is notified of every answer so keyword scores stay current.
type ScoreKeeper interface {
	Record(ctx context.Context, keywords []string, isCorrect bool) error
}

// Machine owns the in-flight session and applies its state transitions.
type Machine struct {
	source  QuestionSource
	sink    AnswerSink
	scores  ScoreKeeper
	store   storage.Store
	session *Session

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewMachine creates a session state machine. The store holds the resumable
// snapshot under StorageKey.
func NewMachine(source QuestionSource, sink AnswerSink, scores ScoreKeeper, store storage.Store) *Machine {
	return &Machine{
		source:  source,
		sink:    sink,
		scores:  scores,
		store:   store,
		now:     time.Now,
		shuffle: rand.Shuffle,
	}
}

// Start creates a new session from the filtered active pool, taking at most
// count questions via a uniform shuffle. An empty pool is an error and leaves
// no session behind.
func (m *Machine) Start(ctx context.Context, filter Filter, count int) (*Session, error) {
	if filter.Topic != "" && filter.Keyword != "" {
		return nil, fmt.Errorf("session: topic and keyword filters are mutually exclusive")
	}
	if count <= 0 {
		return nil, fmt.Errorf("session: question count must be positive, got %d", count)
	}

	active, err := m.source.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.ListActive() > %w", err)
	}

	pool := make([]question.Question, 0, len(active))
	for _, q := range active {
		if filter.matches(q) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoMatchingQuestions
	}

	m.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count < len(pool) {
		pool = pool[:count]
	}

	m.session = &Session{
		Questions:    pool,
		CurrentIndex: 0,
		StartTime:    m.now(),
		Answers:      []history.UserAnswer{},
		State:        StateInProgress,
		Filter:       filter,
	}
	m.persistSnapshot(ctx)
	return m.session, nil
}

// Resume restores an in-progress session from its snapshot. It returns
// (nil, nil) when no resumable session exists.
func (m *Machine) Resume(ctx context.Context) (*Session, error) {
	raw, found, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", StorageKey, err)
	}
	if !found {
		return nil, nil
	}

	var restored Session
	if err := json.Unmarshal([]byte(raw), &restored); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(%s) > %w", StorageKey, err)
	}
	if restored.State != StateInProgress {
		return nil, nil
	}
	m.session = &restored
	return m.session, nil
}

// Current returns the session and the question under the cursor.
func (m *Machine) Current() (*Session, question.Question, error) {
	if m.session == nil {
		return nil, question.Question{}, ErrNoActiveSession
	}
	s := m.session
	if s.State != StateInProgress || s.CurrentIndex >= len(s.Questions) {
		return s, question.Question{}, ErrWrongState
	}
	return s, s.Questions[s.CurrentIndex], nil
}

// Submit answers the current question. Correctness is exact string equality
// against the stored correct answer: case-sensitive, no trimming. The answer
// is appended to the session and to the global history, and keyword scores
// are updated, all at submission time.
func (m *Machine) Submit(ctx context.Context, selected string) (history.UserAnswer, error) {
	s := m.session
	if s == nil {
		return history.UserAnswer{}, ErrNoActiveSession
	}
	if s.State != StateInProgress {
		return history.UserAnswer{}, fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	if len(s.Answers) > s.CurrentIndex {
		return history.UserAnswer{}, ErrAlreadyAnswered
	}

	current := s.Questions[s.CurrentIndex]
	answer := history.UserAnswer{
		QuestionID:     current.ID,
		SelectedAnswer: selected,
		IsCorrect:      current.CorrectAnswer == selected,
		Timestamp:      m.now(),
	}

	s.Answers = append(s.Answers, answer)
	if err := m.sink.Append(ctx, answer); err != nil {
		return answer, fmt.Errorf("sink.Append() > %w", err)
	}
	if err := m.scores.Record(ctx, current.Keywords, answer.IsCorrect); err != nil {
		return answer, fmt.Errorf("scores.Record() > %w", err)
	}
	m.persistSnapshot(ctx)
	return answer, nil
}

// Advance moves the cursor to the next question, or completes the session
// and enters review mode when the last question has been answered.
func (m *Machine) Advance(ctx context.Context) error {
	s := m.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.State != StateInProgress {
		return fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	if len(s.Answers) <= s.CurrentIndex {
		return ErrNotAnswered
	}

	if s.CurrentIndex == len(s.Questions)-1 {
		// Completed is transient: advancing past the last answered
		// question lands directly in review mode.
		s.CurrentIndex = len(s.Questions)
		s.State = StateReviewing
		s.ReviewIndex = 0
	} else {
		s.CurrentIndex++
	}
	m.persistSnapshot(ctx)
	return nil
}

// ReviewNext moves the review cursor forward, staying within bounds.
func (m *Machine) ReviewNext() error {
	s := m.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.State != StateReviewing {
		return fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	if s.ReviewIndex < len(s.Questions)-1 {
		s.ReviewIndex++
	}
	return nil
}

// ReviewPrev moves the review cursor backward, staying within bounds.
func (m *Machine) ReviewPrev() error {
	s := m.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.State != StateReviewing {
		return fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	if s.ReviewIndex > 0 {
		s.ReviewIndex--
	}
	return nil
}

// Review returns the question and recorded answer under the review cursor.
func (m *Machine) Review() (question.Question, history.UserAnswer, error) {
	s := m.session
	if s == nil {
		return question.Question{}, history.UserAnswer{}, ErrNoActiveSession
	}
	if s.State != StateReviewing {
		return question.Question{}, history.UserAnswer{}, fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	return s.Questions[s.ReviewIndex], s.Answers[s.ReviewIndex], nil
}

// Finish discards the session. Its answers were already merged into the
// global history at submission time, so this only clears the snapshot.
func (m *Machine) Finish(ctx context.Context) error {
	s := m.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.State != StateReviewing {
		return fmt.Errorf("state %s: %w", s.State, ErrWrongState)
	}
	s.State = StateFinished
	m.session = nil
	if err := m.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", StorageKey, err)
	}
	return nil
}

// Score summarizes the answers recorded so far.
func (m *Machine) Score() (Score, error) {
	s := m.session
	if s == nil {
		return Score{}, ErrNoActiveSession
	}

	score := Score{
		Total:   len(s.Answers),
		Elapsed: m.now().Sub(s.StartTime),
	}
	for _, answer := range s.Answers {
		if answer.IsCorrect {
			score.Correct++
		}
	}
	if score.Total > 0 {
		score.Percentage = int(math.Round(100 * float64(score.Correct) / float64(score.Total)))
	}
	return score, nil
}

// Session returns the in-flight session, or nil when none exists.
func (m *Machine) Session() *Session {
	return m.session
}

// persistSnapshot writes the resumable snapshot. A failed write is logged
// and otherwise ignored: the in-memory session stays authoritative and the
// next successful write resynchronizes the store.
func (m *Machine) persistSnapshot(ctx context.Context) {
	raw, err := json.Marshal(m.session)
	if err != nil {
		slog.Error("failed to serialize session snapshot", "error", err)
		return
	}
	if err := m.store.Set(ctx, StorageKey, string(raw)); err != nil {
		slog.Error("failed to persist session snapshot", "error", err)
	}
}
