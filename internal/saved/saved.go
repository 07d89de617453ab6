// Package saved exposes the user's saved-article list for display and
// removal.
package saved

import (
	"fmt"
	"log/slog"

	"github.com/btcalls/newsdesk/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns saved articles, newest first. Store read failures degrade to
// an empty list.
func (s *Service) List() []store.Article {
	articles, err := s.store.SavedArticles()
	if err != nil {
		slog.Warn("listing saved articles", "error", err)
		return nil
	}
	return articles
}

// Delete removes one saved article and returns the refreshed list, so the
// caller's view always reflects the store after the write.
func (s *Service) Delete(a store.Article) ([]store.Article, error) {
	if err := s.store.DeleteArticle(a); err != nil {
		return s.List(), fmt.Errorf("deleting saved article: %w", err)
	}
	return s.List(), nil
}
