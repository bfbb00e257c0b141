package report

import (
	"crypto/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/mislabel/pkg/mislabel"
)

// Builder assembles audit reports from judgment output
type Builder struct {
	entropy *ulid.MonotonicEntropy
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Run is an audit record of one judgment pass over a corpus.
type Run struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	TotalItems int               `json:"total_items"`
	Flagged    []FlaggedItem     `json:"flagged"`
	Categories []CategorySummary `json:"categories"`
}

// FlaggedItem is an item that triggered the clash rule.
type FlaggedItem struct {
	Index    int      `json:"index"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Clash    []string `json:"clash"`
}

// CategorySummary aggregates judgment outcomes per category.
type CategorySummary struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
	Flagged  int    `json:"flagged"`
}

// Build assembles a run report from a judged corpus. The three slices
// must be parallel, as returned by Detector.Judge for the same inputs.
func (b *Builder) Build(corpus []string, labels []string, results []mislabel.Result, now time.Time) Run {
	if now.IsZero() {
		now = time.Now()
	}

	run := Run{
		ID:         ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		CreatedAt:  now,
		TotalItems: len(results),
	}

	perCat := make(map[string]*CategorySummary)
	for i, res := range results {
		cat := labels[i]
		summary := perCat[cat]
		if summary == nil {
			summary = &CategorySummary{Category: cat}
			perCat[cat] = summary
		}
		summary.Items++

		if len(res) == 0 {
			continue
		}
		summary.Flagged++
		run.Flagged = append(run.Flagged, FlaggedItem{
			Index:    i,
			Category: cat,
			Text:     corpus[i],
			Clash:    res,
		})
	}

	for _, summary := range perCat {
		run.Categories = append(run.Categories, *summary)
	}
	sort.Slice(run.Categories, func(i, j int) bool {
		return run.Categories[i].Category < run.Categories[j].Category
	})

	return run
}
