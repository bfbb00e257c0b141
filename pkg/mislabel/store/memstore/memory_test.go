package memstore

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/mislabel/pkg/mislabel/store"
)

func TestKeywordLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	ks := store.KeywordSet{Relevant: []string{"shirt", "tee"}, Clash: []string{"bag"}}
	if err := s.UpsertKeywords(ctx, "clothes", ks); err != nil {
		t.Fatalf("UpsertKeywords: %v", err)
	}

	got, found, err := s.GetKeywords(ctx, "clothes")
	if err != nil || !found {
		t.Fatalf("GetKeywords: err=%v found=%v", err, found)
	}
	if !reflect.DeepEqual(got, ks) {
		t.Fatalf("keywords = %v, want %v", got, ks)
	}

	// Upsert replaces.
	replacement := store.KeywordSet{Relevant: []string{"dress"}, Clash: nil}
	if err := s.UpsertKeywords(ctx, "clothes", replacement); err != nil {
		t.Fatalf("UpsertKeywords: %v", err)
	}
	got, _, _ = s.GetKeywords(ctx, "clothes")
	if !reflect.DeepEqual(got.Relevant, []string{"dress"}) {
		t.Fatalf("keywords after replace = %v", got)
	}

	if err := s.DeleteKeywords(ctx, "clothes"); err != nil {
		t.Fatalf("DeleteKeywords: %v", err)
	}
	if _, found, _ := s.GetKeywords(ctx, "clothes"); found {
		t.Fatal("keywords still present after delete")
	}
}

func TestGetKeywordsMissing(t *testing.T) {
	s := New()
	defer s.Close()

	_, found, err := s.GetKeywords(context.Background(), "nosuch")
	if err != nil {
		t.Fatalf("GetKeywords: %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestAllKeywords(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	s.UpsertKeywords(ctx, "clothes", store.KeywordSet{Relevant: []string{"shirt"}})
	s.UpsertKeywords(ctx, "bags", store.KeywordSet{Clash: []string{"shirt"}})

	all, err := s.AllKeywords(ctx)
	if err != nil {
		t.Fatalf("AllKeywords: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d categories, want 2", len(all))
	}
}

func TestStoredCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	ks := store.KeywordSet{Relevant: []string{"shirt"}}
	s.UpsertKeywords(ctx, "clothes", ks)
	ks.Relevant[0] = "mutated"

	got, _, _ := s.GetKeywords(ctx, "clothes")
	if got.Relevant[0] != "shirt" {
		t.Fatal("store shares memory with caller slice")
	}

	got.Relevant[0] = "mutated"
	again, _, _ := s.GetKeywords(ctx, "clothes")
	if again.Relevant[0] != "shirt" {
		t.Fatal("store returns internal state, not a copy")
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		err := s.SaveRun(ctx, store.Run{
			ID:           id,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
			TotalItems:   10,
			FlaggedItems: 1,
			Items: []store.RunItem{
				{Index: 0, Category: "clothes", Text: "leather bag", Clash: []string{"bag"}},
			},
		})
		if err != nil {
			t.Fatalf("SaveRun(%s): %v", id, err)
		}
	}

	got, found, err := s.GetRun(ctx, "run-b")
	if err != nil || !found {
		t.Fatalf("GetRun: err=%v found=%v", err, found)
	}
	if len(got.Items) != 1 || got.Items[0].Clash[0] != "bag" {
		t.Fatalf("run items = %v", got.Items)
	}

	recent, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d runs, want 2", len(recent))
	}
	if recent[0].ID != "run-c" || recent[1].ID != "run-b" {
		t.Fatalf("runs not newest-first: %s, %s", recent[0].ID, recent[1].ID)
	}
}
