package imgcache

import (
	"context"
	"errors"
	"image"
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailure
)

// Update describes the loader's state for the URL it was asked to load.
type Update struct {
	URL   string
	State State
	Image image.Image
}

// Loader tracks one consumer's thumbnail. Each Load supersedes the previous
// one: a late result for an older URL is never surfaced. After Close no
// update is delivered at all.
type Loader struct {
	cache *Cache

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	current Update
	updates chan Update
}

func (c *Cache) NewLoader() *Loader {
	return &Loader{
		cache:   c,
		updates: make(chan Update, 4),
	}
}

// Updates delivers every state change for the most recent Load.
func (l *Loader) Updates() <-chan Update {
	return l.updates
}

// Current returns the last delivered state.
func (l *Loader) Current() Update {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Load starts fetching the URL, cancelling any previous in-flight load for
// this consumer. An empty URL resets the loader to idle.
func (l *Loader) Load(url string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if url == "" {
		l.mu.Unlock()
		l.emit(gen, Update{State: StateIdle})
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()

	l.emit(gen, Update{URL: url, State: StateLoading})

	go func() {
		defer cancel()
		img, err := l.cache.load(ctx, url)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			l.emit(gen, Update{URL: url, State: StateFailure})
			return
		}
		l.emit(gen, Update{URL: url, State: StateSuccess, Image: img})
	}()
}

// Close stops the loader. Any in-flight download result is discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) emit(gen uint64, u Update) {
	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.current = u
	l.mu.Unlock()

	for {
		select {
		case l.updates <- u:
			return
		default:
			select {
			case <-l.updates:
			default:
			}
		}
	}
}
