// Package imgcache downloads and caches article thumbnails. The cache is
// shared by every consumer and keyed by exact URL; each consumer owns a
// Loader whose latest requested URL always wins.
package imgcache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Cache holds decoded (and already downscaled) images by URL, plus the set
// of in-flight downloads so concurrent consumers share one request per URL.
type Cache struct {
	httpClient *http.Client
	maxDim     int

	mu       sync.Mutex
	images   map[string]image.Image
	inflight map[string]*inflight
}

type inflight struct {
	done chan struct{}
	img  image.Image
	err  error
}

type CacheOption func(*Cache)

func WithHTTPClient(hc *http.Client) CacheOption {
	return func(c *Cache) { c.httpClient = hc }
}

// NewCache creates a cache whose entries are downscaled so the longer side
// equals maxDim. A maxDim of zero disables downscaling.
func NewCache(maxDim int, opts ...CacheOption) *Cache {
	c := &Cache{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		maxDim:     maxDim,
		images:     make(map[string]image.Image),
		inflight:   make(map[string]*inflight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// load returns the cached image or downloads it. The download itself is not
// tied to the caller's context: another consumer may still want the result.
// The caller's context only governs how long this call waits.
func (c *Cache) load(ctx context.Context, url string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.images[url]; ok {
		c.mu.Unlock()
		return img, nil
	}
	if fl, ok := c.inflight[url]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.img, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fl := &inflight{done: make(chan struct{})}
	c.inflight[url] = fl
	c.mu.Unlock()

	go func() {
		img, err := c.fetch(url)
		c.mu.Lock()
		if err == nil {
			c.images[url] = img
		}
		delete(c.inflight, url)
		c.mu.Unlock()
		fl.img, fl.err = img, err
		close(fl.done)
	}()

	select {
	case <-fl.done:
		return fl.img, fl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fetch(url string) (image.Image, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return downscale(img, c.maxDim), nil
}

// downscale shrinks the image so its longer side equals maxDim, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func downscale(src image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h)*float64(maxDim)/float64(w) + 0.5)
	} else {
		nh = maxDim
		nw = int(float64(w)*float64(maxDim)/float64(h) + 0.5)
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
