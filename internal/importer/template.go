package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hmatsuda/quizfolio/internal/question"
)

var templateQuestions = []question.Question{
	{
		Topic:         "Cloud Storage",
		Text:          "Which storage class is the cheapest for data accessed less than once a year?",
		Options:       []string{"Standard", "Nearline", "Coldline", "Archive"},
		CorrectAnswer: "Archive",
		Explanation:   "Archive storage has the lowest at-rest price for rarely accessed data.",
		Keywords:      []string{"storage", "cost"},
		Difficulty:    question.DifficultyBeginner,
	},
	{
		Topic:         "IAM",
		Text:          "Which resource grants a set of permissions to a principal?",
		Options:       []string{"Role", "Policy", "Service account", "Group"},
		CorrectAnswer: "Role",
		Explanation:   "Roles bundle permissions; policies bind roles to principals.",
		Keywords:      []string{"iam"},
		Difficulty:    question.DifficultyIntermediate,
	},
}

// Template renders a small sample question file in the given format so users
// can see the expected shape before preparing their own.
func Template(format string) (string, error) {
	switch strings.ToLower(format) {
	case "csv":
		return csvTemplate(), nil
	case "json":
		raw, err := json.MarshalIndent(templateQuestions, "", "  ")
		if err != nil {
			return "", fmt.Errorf("json.MarshalIndent() > %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("format %s: %w", format, ErrUnsupportedFormat)
	}
}

func csvTemplate() string {
	var b strings.Builder
	b.WriteString("topic,question,option1,option2,option3,option4,correct_answer,explanation,keywords,difficulty\n")
	for _, q := range templateQuestions {
		fields := []string{
			q.Topic, q.Text,
			q.Options[0], q.Options[1], q.Options[2], q.Options[3],
			q.CorrectAnswer, q.Explanation,
			strings.Join(q.Keywords, ";"), string(q.Difficulty),
		}
		quoted := make([]string, len(fields))
		for i, field := range fields {
			quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		b.WriteString(strings.Join(quoted, ","))
		b.WriteString("\n")
	}
	return b.String()
}
