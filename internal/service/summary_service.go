package service

import (
	"fmt"
	"strings"
	"time"

	"score-tracker/internal/format"
	"score-tracker/internal/model"
	"score-tracker/internal/stats"
)

// SummaryService builds plain-text overviews of tracked scores.
type SummaryService struct{}

func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

// Report lists every category (newest first) with its items (most recently
// updated first) and their decay-weighted statistics.
func (s *SummaryService) Report(store *model.Store, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("Score report\n")
	builder.WriteString(fmt.Sprintf("%s\n\n", format.Timestamp(now)))

	cats := store.CategoryNames()
	if len(cats) == 0 {
		builder.WriteString("- no categories yet\n")
		return strings.TrimSpace(builder.String())
	}

	for _, cat := range cats {
		items, err := store.ItemNames(cat)
		if err != nil {
			continue
		}
		builder.WriteString(fmt.Sprintf("%s (%d items)\n", cat, len(items)))
		if len(items) == 0 {
			builder.WriteString("  - no items\n")
		}
		for _, name := range items {
			it, err := store.Item(cat, name)
			if err != nil {
				continue
			}
			builder.WriteString(s.formatItem(name, it, now))
		}
		builder.WriteByte('\n')
	}

	return strings.TrimSpace(builder.String())
}

// ItemLine is the one-line statistics summary used by Report and the shell.
func (s *SummaryService) ItemLine(it *model.Item) string {
	values := it.Values()
	if len(values) == 0 {
		return fmt.Sprintf("no scores · decay %.2f", it.DecayRate)
	}
	sum := stats.Summarize(values, it.DecayRate)
	return fmt.Sprintf("mean %s ± %s · n=%d · latest %s · decay %.2f",
		format.Float(sum.Mean, 1),
		format.Float(sum.StdDev, 1),
		sum.Count,
		format.Int(values[len(values)-1]),
		it.DecayRate,
	)
}

func (s *SummaryService) formatItem(name string, it *model.Item, now time.Time) string {
	return fmt.Sprintf("  %s: %s · updated %s\n", name, s.ItemLine(it), format.Since(it.UpdatedAt, now))
}

// History renders the score sequence newest first. Row labels carry the
// physical position (#1 is the oldest entry) so they can be passed back to
// score deletion unchanged.
func (s *SummaryService) History(it *model.Item, now time.Time) string {
	if len(it.Scores) == 0 {
		return "no history"
	}

	var builder strings.Builder
	for i := len(it.Scores) - 1; i >= 0; i-- {
		entry := it.Scores[i]
		builder.WriteString(fmt.Sprintf("#%-4d %12s  [%s] %s\n",
			i+1,
			format.Int(entry.Score),
			format.Timestamp(entry.Timestamp),
			format.Since(entry.Timestamp, now),
		))
	}
	return strings.TrimRight(builder.String(), "\n")
}
