// Package report renders portfolio standings and the wrong-answer heatmap as
// a markdown study report, optionally converted to PDF.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hmatsuda/quizfolio/internal/history"
	"github.com/hmatsuda/quizfolio/internal/portfolio"
)

// Builder assembles the study report from the persisted state.
type Builder struct {
	agg *portfolio.Aggregator
	log *history.Log
}

// NewBuilder creates a report builder.
func NewBuilder(agg *portfolio.Aggregator, log *history.Log) *Builder {
	return &Builder{agg: agg, log: log}
}

// Markdown renders the full report.
func (b *Builder) Markdown(ctx context.Context) (string, error) {
	scores, err := b.agg.Portfolio(ctx)
	if err != nil {
		return "", fmt.Errorf("agg.Portfolio() > %w", err)
	}
	stats, err := b.agg.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("agg.Stats() > %w", err)
	}
	answers, err := b.log.All(ctx)
	if err != nil {
		return "", fmt.Errorf("log.All() > %w", err)
	}

	var md strings.Builder
	md.WriteString("# Study report\n\n")
	md.WriteString(fmt.Sprintf("Generated on %s.\n\n", time.Now().Format("2006-01-02")))

	writeSummary(&md, answers)
	writePortfolio(&md, scores)
	writeHeatmap(&md, stats)

	return md.String(), nil
}

func writeSummary(md *strings.Builder, answers []history.UserAnswer) {
	md.WriteString("## Summary\n\n")
	if len(answers) == 0 {
		md.WriteString("No questions answered yet.\n\n")
		return
	}

	correct := 0
	for _, answer := range answers {
		if answer.IsCorrect {
			correct++
		}
	}
	md.WriteString(fmt.Sprintf("- Questions answered: %d\n", len(answers)))
	md.WriteString(fmt.Sprintf("- Correct: %d (%.1f%%)\n", correct, 100*float64(correct)/float64(len(answers))))
	md.WriteString(fmt.Sprintf("- First activity: %s\n", answers[0].Timestamp.Format("2006-01-02")))
	md.WriteString(fmt.Sprintf("- Last activity: %s\n\n", answers[len(answers)-1].Timestamp.Format("2006-01-02")))
}

func writePortfolio(md *strings.Builder, scores portfolio.Portfolio) {
	md.WriteString("## Keyword portfolio\n\n")
	if len(scores) == 0 {
		md.WriteString("No keyword scores yet.\n\n")
		return
	}

	type row struct {
		keyword string
		entry   portfolio.Entry
	}
	rows := make([]row, 0, len(scores))
	for keyword, entry := range scores {
		rows = append(rows, row{keyword: keyword, entry: entry})
	}
	// strongest holdings first
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].entry.Credit != rows[j].entry.Credit {
			return rows[i].entry.Credit > rows[j].entry.Credit
		}
		return rows[i].keyword < rows[j].keyword
	})

	md.WriteString("| Keyword | Credit | Growth | Last updated |\n")
	md.WriteString("| --- | ---: | ---: | --- |\n")
	for _, r := range rows {
		md.WriteString(fmt.Sprintf("| %s | %.2f | %+.2f%% | %s |\n",
			r.keyword, r.entry.Credit, r.entry.Growth, r.entry.LastUpdated.Format("2006-01-02")))
	}
	md.WriteString("\n")
}

func writeHeatmap(md *strings.Builder, stats portfolio.KeywordStats) {
	md.WriteString("## Wrong answers by day\n\n")
	if len(stats) == 0 {
		md.WriteString("No wrong answers recorded.\n")
		return
	}

	keywords := make([]string, 0, len(stats))
	for keyword := range stats {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		days := make([]string, 0, len(stats[keyword]))
		for day := range stats[keyword] {
			days = append(days, day)
		}
		sort.Strings(days)

		md.WriteString(fmt.Sprintf("### %s\n\n", keyword))
		for _, day := range days {
			md.WriteString(fmt.Sprintf("- %s: %d\n", day, stats[keyword][day]))
		}
		md.WriteString("\n")
	}
}
