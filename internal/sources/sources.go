// Package sources owns the user's source selection: importing the source
// catalogue from the remote API on first run, toggling selections on plain
// value copies, and committing them back to the local store.
package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/btcalls/newsdesk/internal/api"
	"github.com/btcalls/newsdesk/internal/store"
)

// Fetcher is the remote side of the catalogue import. *api.Client satisfies it.
type Fetcher interface {
	FetchSources(ctx context.Context, language string) ([]api.Source, error)
}

type Service struct {
	store    *store.Store
	fetcher  Fetcher
	language string
}

func NewService(st *store.Store, fetcher Fetcher, language string) *Service {
	return &Service{store: st, fetcher: fetcher, language: language}
}

// Load returns the source catalogue. The local store wins when populated;
// otherwise the catalogue is fetched from the API and persisted so later
// launches are offline-capable.
func (s *Service) Load(ctx context.Context) ([]store.Source, error) {
	existing, err := s.store.Sources(false)
	if err != nil {
		// Read failures degrade to an import, never to a crash.
		slog.Warn("reading sources from store", "error", err)
		existing = nil
	}
	if len(existing) > 0 {
		return existing, nil
	}

	remote, err := s.fetcher.FetchSources(ctx, s.language)
	if err != nil {
		return nil, err
	}

	imported := make([]store.Source, 0, len(remote))
	for _, src := range remote {
		imported = append(imported, store.Source{
			ID:       src.ID,
			Name:     src.Name,
			URL:      src.URL,
			Category: src.Category,
		})
	}
	if err := s.store.UpsertSources(imported); err != nil {
		return nil, fmt.Errorf("persisting imported sources: %w", err)
	}
	// Re-read so callers see store ordering (name ascending).
	return s.ListAll(), nil
}

// ListAll returns every source sorted by name. Store read failures degrade
// to an empty result.
func (s *Service) ListAll() []store.Source {
	sources, err := s.store.Sources(false)
	if err != nil {
		slog.Warn("listing sources", "error", err)
		return nil
	}
	return sources
}

// ListSelected returns the selected subset sorted by name.
func (s *Service) ListSelected() []store.Source {
	sources, err := s.store.Sources(true)
	if err != nil {
		slog.Warn("listing selected sources", "error", err)
		return nil
	}
	return sources
}

// Commit persists the working set. Only rows already present are written,
// so toggling can never create or delete sources.
func (s *Service) Commit(working []store.Source) error {
	return s.store.UpsertSources(working)
}

// SetSelected flips the selection flag on the copy with the given id and
// reports whether the id was found. The slice is a working set of values;
// nothing is persisted until Commit.
func SetSelected(working []store.Source, id string, selected bool) bool {
	for i := range working {
		if working[i].ID == id {
			working[i].Selected = selected
			return true
		}
	}
	return false
}

// ClearSelections unselects every source in the working set.
func ClearSelections(working []store.Source) {
	for i := range working {
		working[i].Selected = false
	}
}
