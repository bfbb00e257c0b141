package store

import (
	"context"
	"time"
)

// Store persists trained keyword sets and judgment run records. The
// Detector itself never touches a Store; persistence is a collaborator
// concern layered on top of it.
type Store interface {
	Close() error

	// Keyword sets
	UpsertKeywords(ctx context.Context, category string, ks KeywordSet) error
	GetKeywords(ctx context.Context, category string) (KeywordSet, bool, error)
	AllKeywords(ctx context.Context) (map[string]KeywordSet, error)
	DeleteKeywords(ctx context.Context, category string) error

	// Judgment runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// KeywordSet holds one category's stored keyword lists, order preserved.
type KeywordSet struct {
	Relevant []string
	Clash    []string
}

// Run records one judgment pass over a corpus.
type Run struct {
	ID           string
	CreatedAt    time.Time
	TotalItems   int
	FlaggedItems int
	Items        []RunItem
}

// RunItem records a single flagged item within a run. Clean items are
// not stored; the run totals account for them.
type RunItem struct {
	Index    int
	Category string
	Text     string
	Clash    []string
}
