package sources

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/btcalls/newsdesk/internal/api"
	"github.com/btcalls/newsdesk/internal/store"
)

type fakeFetcher struct {
	sources []api.Source
	err     error
	calls   int
}

func (f *fakeFetcher) FetchSources(ctx context.Context, language string) ([]api.Source, error) {
	f.calls++
	return f.sources, f.err
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func catalogue() []api.Source {
	return []api.Source{
		{ID: "bbc-news", Name: "BBC News", URL: "https://bbc.co.uk", Category: "general"},
		{ID: "abc-news", Name: "ABC News", URL: "https://abcnews.go.com", Category: "general"},
	}
}

func TestLoadImportsWhenStoreEmpty(t *testing.T) {
	st := testStore(t)
	fetcher := &fakeFetcher{sources: catalogue()}
	svc := NewService(st, fetcher, "en")

	got, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got))
	}
	// Sorted by name after persist
	if got[0].Name != "ABC News" {
		t.Errorf("expected name-ascending order, got %v", got)
	}

	// Second load must come from the store, not the API.
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected store hit on second load, fetch count %d", fetcher.calls)
	}
}

func TestLoadSurfacesFetchError(t *testing.T) {
	st := testStore(t)
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc := NewService(st, fetcher, "en")

	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected error when import fails")
	}
}

func TestSelectionPurity(t *testing.T) {
	st := testStore(t)
	fetcher := &fakeFetcher{sources: catalogue()}
	svc := NewService(st, fetcher, "en")

	working, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !SetSelected(working, "bbc-news", true) {
		t.Fatal("expected bbc-news in working set")
	}
	if err := svc.Commit(working); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	all := svc.ListAll()
	if len(all) != 2 {
		t.Fatalf("toggling changed row count: %d", len(all))
	}
	for _, src := range all {
		switch src.ID {
		case "bbc-news":
			if !src.Selected {
				t.Error("expected bbc-news selected")
			}
		case "abc-news":
			if src.Selected {
				t.Error("abc-news selection must be untouched")
			}
			if src.Name != "ABC News" || src.Category != "general" {
				t.Errorf("other source fields changed: %+v", src)
			}
		}
	}

	selected := svc.ListSelected()
	if len(selected) != 1 || selected[0].ID != "bbc-news" {
		t.Errorf("unexpected selected subset: %v", selected)
	}
}

func TestSetSelectedUnknownID(t *testing.T) {
	working := []store.Source{{ID: "a"}}
	if SetSelected(working, "missing", true) {
		t.Error("expected false for unknown id")
	}
}

func TestClearSelections(t *testing.T) {
	st := testStore(t)
	fetcher := &fakeFetcher{sources: catalogue()}
	svc := NewService(st, fetcher, "en")

	working, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	SetSelected(working, "bbc-news", true)
	SetSelected(working, "abc-news", true)
	if err := svc.Commit(working); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	working = svc.ListAll()
	ClearSelections(working)
	if err := svc.Commit(working); err != nil {
		t.Fatalf("Commit after clear: %v", err)
	}

	if got := svc.ListSelected(); len(got) != 0 {
		t.Errorf("expected no selected sources, got %v", got)
	}
	if got := svc.ListAll(); len(got) != 2 {
		t.Errorf("clear changed row count: %d", len(got))
	}
}
