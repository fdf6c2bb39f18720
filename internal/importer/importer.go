// Package importer turns CSV, JSON, and YAML question files into records for
// the repository. Parsing is lenient about record content: structurally
// readable rows are handed to the repository, which validates each one and
// keeps the success/failure accounting for the batch.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hmatsuda/quizfolio/internal/question"
)

// CSV column order: topic, question, four options, correct answer,
// explanation, semicolon-joined keywords, difficulty.
const csvColumns = 10

// ErrUnsupportedFormat is returned for files that are not CSV, JSON, or YAML.
var ErrUnsupportedFormat = fmt.Errorf("importer: unsupported file format")

// File describes one parsed import source.
type File struct {
	Questions []question.Question
	Meta      question.BatchMeta
}

// ParseFile reads and parses a question file, choosing the format from the
// file extension.
func ParseFile(path string) (File, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return Parse(contents, filepath.Base(path))
}

// Parse parses question file contents. The filename supplies the format
// (by extension) and the batch metadata.
func Parse(contents []byte, filename string) (File, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var questions []question.Question
	var err error
	switch ext {
	case ".csv":
		questions, err = parseCSV(contents)
	case ".json":
		questions, err = parseJSON(contents)
	case ".yml", ".yaml":
		questions, err = parseYAML(contents)
	default:
		return File{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return File{}, err
	}

	return File{
		Questions: questions,
		Meta: question.BatchMeta{
			Filename: filename,
			FileSize: int64(len(contents)),
			FileType: strings.TrimPrefix(ext, "."),
		},
	}, nil
}

func parseCSV(contents []byte) ([]question.Question, error) {
	reader := csv.NewReader(strings.NewReader(string(contents)))
	reader.FieldsPerRecord = -1 // short rows become validation failures, not parse errors

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv.ReadAll() > %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// skip the header row when it looks like one
	if strings.EqualFold(strings.TrimSpace(rows[0][0]), "topic") {
		rows = rows[1:]
	}

	questions := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		padded := make([]string, csvColumns)
		copy(padded, row)

		options := make([]string, 0, 4)
		for _, option := range padded[2:6] {
			if strings.TrimSpace(option) != "" {
				options = append(options, option)
			}
		}

		questions = append(questions, question.Question{
			Topic:         padded[0],
			Text:          padded[1],
			Options:       options,
			CorrectAnswer: padded[6],
			Explanation:   padded[7],
			Keywords:      splitKeywords(padded[8]),
			Difficulty:    question.Difficulty(strings.TrimSpace(padded[9])),
		})
	}
	return questions, nil
}

func parseJSON(contents []byte) ([]question.Question, error) {
	var questions []question.Question
	if err := json.Unmarshal(contents, &questions); err != nil {
		return nil, fmt.Errorf("json.Unmarshal() > %w", err)
	}
	return questions, nil
}

func parseYAML(contents []byte) ([]question.Question, error) {
	var questions []question.Question
	if err := yaml.Unmarshal(contents, &questions); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	return questions, nil
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, keyword := range strings.Split(raw, ";") {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}
