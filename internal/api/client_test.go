package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/only"} {
		if _, err := NewClient(raw, ""); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("NewClient(%q): expected ErrInvalidURL, got %v", raw, err)
		}
	}
}

func TestDoBuildsURLAndHeaders(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(`{}`))
	}))

	q := url.Values{}
	q.Set("language", "en")
	q.Set("pageSize", "20")

	// Leading slash must not produce a double separator.
	_, err := c.Do(context.Background(), Endpoint{Path: "/everything", Query: q})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if got.URL.Path != "/everything" {
		t.Errorf("unexpected path: %s", got.URL.Path)
	}
	if got.URL.Query().Get("language") != "en" || got.URL.Query().Get("pageSize") != "20" {
		t.Errorf("unexpected query: %s", got.URL.RawQuery)
	}
	if got.Header.Get("X-Api-Key") != "test-key" {
		t.Errorf("expected api key header, got %q", got.Header.Get("X-Api-Key"))
	}
	if got.Header.Get("Accept") != "application/json" {
		t.Errorf("unexpected accept header: %q", got.Header.Get("Accept"))
	}
}

func TestDoPerCallHeadersWin(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))

	_, err := c.Do(context.Background(), Endpoint{
		Path:    "everything",
		Headers: Headers{"Accept": "text/plain", "X-Trace": "abc"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got.Get("Accept") != "text/plain" {
		t.Errorf("expected per-call Accept to win, got %q", got.Get("Accept"))
	}
	if got.Get("X-Trace") != "abc" {
		t.Errorf("expected per-call header present, got %q", got.Get("X-Trace"))
	}
}

func TestDoOmitsEmptyQuery(t *testing.T) {
	var raw string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))

	if _, err := c.Do(context.Background(), Endpoint{Path: "everything"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if raw != "" {
		t.Errorf("expected no query string, got %q", raw)
	}
}

func TestDoStatusError(t *testing.T) {
	body := `{"status":"error","code":"parametersMissing","message":"Required parameters are missing."}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(body))
	}))

	_, err := c.Do(context.Background(), Endpoint{Path: "everything"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", se.Code)
	}
	if string(se.Body) != body {
		t.Errorf("expected raw body retained, got %q", se.Body)
	}
}

func TestStatusErrorMessages(t *testing.T) {
	tests := []struct {
		code int
		body string
		want string
	}{
		{400, `{}`, "Scope of search is too broad."},
		{429, `{}`, "Reached the request limit for this API key."},
		{500, `{"status":"error","code":"unexpectedError","message":"Something went wrong."}`, "Something went wrong."},
		{503, `not json`, "Server responded with status code 503."},
	}
	for _, tt := range tests {
		se := &StatusError{Code: tt.code, Body: []byte(tt.body)}
		if got := se.Message(); got != tt.want {
			t.Errorf("Message() for %d = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := NewClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	srv.Close()

	_, err = c.Do(context.Background(), Endpoint{Path: "everything"})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestDoCancelled(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, Endpoint{Path: "everything"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchArticlesDecodes(t *testing.T) {
	body := `{"status":"ok","totalResults":1,"articles":[{
		"source":{"id":"abc-news","name":"ABC News"},
		"author":"Jane Doe",
		"title":"Headline",
		"description":"Body text",
		"url":"https://example.com/a",
		"urlToImage":"https://example.com/a.jpg",
		"publishedAt":"2026-01-30T12:30:48Z"
	}]}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(body))
	}))

	articles, err := c.FetchArticles(context.Background(), ArticleQuery{Language: "en", PageSize: 20})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Source.ID != "abc-news" || a.Title != "Headline" {
		t.Errorf("unexpected article: %+v", a)
	}
	if a.PublishedAt.UTC().Format(time.RFC3339) != "2026-01-30T12:30:48Z" {
		t.Errorf("unexpected publishedAt: %v", a.PublishedAt)
	}
}

func TestFetchArticlesDecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles": "not-a-list"}`))
	}))

	_, err := c.FetchArticles(context.Background(), ArticleQuery{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestFetchSources(t *testing.T) {
	var gotQuery url.Values
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines/sources" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"ok","sources":[{"id":"afr","name":"Australian Financial Review","url":"http://www.afr.com","category":"business"}]}`))
	}))

	sources, err := c.FetchSources(context.Background(), "en")
	if err != nil {
		t.Fatalf("FetchSources: %v", err)
	}
	if gotQuery.Get("language") != "en" {
		t.Errorf("expected language query, got %q", gotQuery.Encode())
	}
	if len(sources) != 1 || sources[0].ID != "afr" {
		t.Errorf("unexpected sources: %+v", sources)
	}
}

func TestArticleQueryValues(t *testing.T) {
	q := ArticleQuery{Term: "climate", SourceIDs: []string{"id1", "id2"}, Language: "en", PageSize: 20}
	v := q.Values()
	if v.Get("q") != "climate" {
		t.Errorf("expected q=climate, got %q", v.Get("q"))
	}
	if v.Get("sources") != "id1,id2" {
		t.Errorf("expected comma-joined sources, got %q", v.Get("sources"))
	}
	if v.Get("pageSize") != "20" {
		t.Errorf("expected pageSize=20, got %q", v.Get("pageSize"))
	}

	empty := ArticleQuery{Language: "en", PageSize: 10}
	v = empty.Values()
	if _, ok := v["q"]; ok {
		t.Error("empty term must be omitted")
	}
	if _, ok := v["sources"]; ok {
		t.Error("empty source list must be omitted")
	}
}

func TestLoggingRedactsAPIKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "super-secret-key", WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Do(context.Background(), Endpoint{Path: "everything"}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	if strings.Contains(out, "super-secret-key") {
		t.Error("api key leaked into logs")
	}
	if !strings.Contains(out, "X-Api-Key") {
		t.Error("expected header name to be logged")
	}
}
