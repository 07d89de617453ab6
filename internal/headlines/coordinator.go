// Package headlines coordinates article fetches: it decides what query to
// send based on the current source selection, supersedes stale in-flight
// requests, and exposes a single loading/error/data snapshot to the UI.
package headlines

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcalls/newsdesk/internal/api"
	"github.com/btcalls/newsdesk/internal/store"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

// Snapshot is the immutable state value handed to presentation code. No raw
// error ever crosses this boundary; failures arrive as ErrorMessage.
type Snapshot struct {
	Phase         Phase
	Articles      []api.Article
	ErrorMessage  string
	Status        string
	HasLoadedOnce bool
}

// Policy carries the query-construction configuration: fixed language,
// articles requested per selected source, the pageSize cap, and the floor
// used when nothing is selected.
type Policy struct {
	Language    string
	PerSource   int
	MaxPageSize int
	MinPageSize int
}

// Fetcher is the remote article endpoint. *api.Client satisfies it.
type Fetcher interface {
	FetchArticles(ctx context.Context, q api.ArticleQuery) ([]api.Article, error)
}

// SelectionLister reports the committed source selection. *sources.Service
// satisfies it.
type SelectionLister interface {
	ListSelected() []store.Source
}

// ArticleWriter persists saved articles. *store.Store satisfies it.
type ArticleWriter interface {
	UpsertArticles(articles []store.Article) error
}

// Coordinator is the fetch state machine. Any Fetch call supersedes the
// previous in-flight request: each call bumps a generation counter and a
// completion only applies while its generation is still current.
type Coordinator struct {
	fetcher   Fetcher
	selection SelectionLister
	writer    ArticleWriter
	policy    Policy
	now       func() time.Time

	mu      sync.Mutex
	snap    Snapshot
	gen     uint64
	cancel  context.CancelFunc
	updates chan Snapshot
}

func NewCoordinator(fetcher Fetcher, selection SelectionLister, writer ArticleWriter, policy Policy) *Coordinator {
	return &Coordinator{
		fetcher:   fetcher,
		selection: selection,
		writer:    writer,
		policy:    policy,
		now:       time.Now,
		updates:   make(chan Snapshot, 16),
	}
}

// Snapshot returns the current state value.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Updates delivers a snapshot after every state transition. The channel is
// buffered and drops the oldest entry under backpressure, so a slow consumer
// always ends up observing the latest state.
func (c *Coordinator) Updates() <-chan Snapshot {
	return c.updates
}

// FetchIfNeeded triggers the first load only; later refreshes go through
// Fetch explicitly.
func (c *Coordinator) FetchIfNeeded(ctx context.Context, term string) {
	c.mu.Lock()
	loaded := c.snap.HasLoadedOnce
	c.mu.Unlock()
	if loaded {
		return
	}
	c.Fetch(ctx, term)
}

// Fetch starts a new article fetch for the current selection and search
// term. A previous in-flight request is cancelled and its result discarded.
func (c *Coordinator) Fetch(ctx context.Context, term string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.snap.Phase = PhaseLoading
	c.snap.HasLoadedOnce = true
	snap := c.snap
	c.mu.Unlock()
	c.notify(snap)

	// The selection is read once at call time; a change while the request
	// is in flight does not invalidate the result.
	selected := c.selection.ListSelected()
	query := c.buildQuery(selected, term)

	go func() {
		defer cancel()
		articles, err := c.fetcher.FetchArticles(fctx, query)
		c.apply(gen, len(selected) == 0, articles, err)
	}()
}

func (c *Coordinator) buildQuery(selected []store.Source, term string) api.ArticleQuery {
	pageSize := c.policy.PerSource * len(selected)
	if len(selected) == 0 {
		pageSize = c.policy.MinPageSize
	}
	if pageSize > c.policy.MaxPageSize {
		pageSize = c.policy.MaxPageSize
	}

	ids := make([]string, 0, len(selected))
	for _, src := range selected {
		ids = append(ids, src.ID)
	}

	return api.ArticleQuery{
		Term:      term,
		SourceIDs: ids,
		Language:  c.policy.Language,
		PageSize:  pageSize,
	}
}

func (c *Coordinator) apply(gen uint64, emptySelection bool, articles []api.Article, err error) {
	// A superseded request is not an operational fault.
	if errors.Is(err, context.Canceled) {
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.snap.Phase = PhaseFailed
		// Stale results must never sit next to an error.
		c.snap.Articles = nil
		c.snap.ErrorMessage = userMessage(err)
		if emptySelection {
			c.snap.Status = "no sources selected"
		} else {
			c.snap.Status = "fetch failed"
		}
	} else {
		c.snap.Phase = PhaseReady
		c.snap.Articles = articles
		c.snap.ErrorMessage = ""
		c.snap.Status = "Last updated " + c.now().Format("15:04:05")
	}
	snap := c.snap
	c.mu.Unlock()
	c.notify(snap)
}

// Save marks the article saved and persists it. It touches no fetch state,
// so it is safe to call while a fetch is loading.
func (c *Coordinator) Save(a api.Article) error {
	rec := store.Article{
		SourceID:     a.Source.ID,
		SourceName:   a.Source.Name,
		Author:       a.Author,
		Title:        a.Title,
		Description:  a.Description,
		URL:          a.URL,
		ThumbnailURL: a.URLToImage,
		PublishedAt:  a.PublishedAt,
		Saved:        true,
	}
	if err := c.writer.UpsertArticles([]store.Article{rec}); err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	return nil
}

func (c *Coordinator) notify(s Snapshot) {
	for {
		select {
		case c.updates <- s:
			return
		default:
			select {
			case <-c.updates:
			default:
			}
		}
	}
}

// userMessage converts a typed API failure into the string shown to the
// user.
func userMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Message()
	}
	var de *api.DecodeError
	if errors.As(err, &de) {
		return "The server response could not be read."
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return "Network problem. Check your connection and try again."
	}
	if errors.Is(err, api.ErrInvalidURL) || errors.Is(err, api.ErrInvalidResponse) {
		return "The server returned an invalid response."
	}
	return err.Error()
}
