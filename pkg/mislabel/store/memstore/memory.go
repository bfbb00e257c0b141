package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/mislabel/pkg/mislabel/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	keywords map[string]store.KeywordSet
	runs     map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		keywords: make(map[string]store.KeywordSet),
		runs:     make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertKeywords stores a category's keyword set, replacing any prior one.
func (s *Store) UpsertKeywords(ctx context.Context, category string, ks store.KeywordSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		return nil
	}
	s.keywords[category] = copyKeywordSet(ks)
	return nil
}

// GetKeywords returns a category's keyword set if present.
func (s *Store) GetKeywords(ctx context.Context, category string) (store.KeywordSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ks, ok := s.keywords[category]; ok {
		return copyKeywordSet(ks), true, nil
	}
	return store.KeywordSet{}, false, nil
}

// AllKeywords returns every stored category's keyword set.
func (s *Store) AllKeywords(ctx context.Context) (map[string]store.KeywordSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]store.KeywordSet, len(s.keywords))
	for cat, ks := range s.keywords {
		out[cat] = copyKeywordSet(ks)
	}
	return out, nil
}

// DeleteKeywords removes a category's keyword set.
func (s *Store) DeleteKeywords(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keywords, category)
	return nil
}

// SaveRun stores a judgment run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		return nil
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.runs[id]; ok {
		return copyRun(r), true, nil
	}
	return store.Run{}, false, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, copyRun(r))
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func copyKeywordSet(ks store.KeywordSet) store.KeywordSet {
	return store.KeywordSet{
		Relevant: copySlice(ks.Relevant),
		Clash:    copySlice(ks.Clash),
	}
}

func copyRun(r store.Run) store.Run {
	items := make([]store.RunItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = store.RunItem{
			Index:    item.Index,
			Category: item.Category,
			Text:     item.Text,
			Clash:    copySlice(item.Clash),
		}
	}
	r.Items = items
	return r
}

func copySlice(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
