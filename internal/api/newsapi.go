package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ArticleSource is the provider's embedded source reference on an article.
// The id is absent for sources the provider has not catalogued.
type ArticleSource struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is a single news item as returned by the "everything" endpoint.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage,omitempty"`
	PublishedAt time.Time     `json:"publishedAt"`
}

// Source is a news provider entry from the "top-headlines/sources" endpoint.
type Source struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category,omitempty"`
}

type articlesResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles"`
}

type sourcesResponse struct {
	Status       string   `json:"status"`
	TotalResults int      `json:"totalResults,omitempty"`
	Sources      []Source `json:"sources"`
}

// ArticleQuery carries the parameters for an article fetch. Values renders
// it as the provider's query string: empty term and empty source list are
// omitted entirely.
type ArticleQuery struct {
	Term      string
	SourceIDs []string
	Language  string
	PageSize  int
}

func (q ArticleQuery) Values() url.Values {
	v := url.Values{}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Term != "" {
		v.Set("q", q.Term)
	}
	if len(q.SourceIDs) > 0 {
		v.Set("sources", strings.Join(q.SourceIDs, ","))
	}
	return v
}

// FetchArticles calls GET {base}/everything with the given query.
func (c *Client) FetchArticles(ctx context.Context, q ArticleQuery) ([]Article, error) {
	resp, err := send[articlesResponse](ctx, c, Endpoint{
		Path:  "everything",
		Query: q.Values(),
	})
	if err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// FetchSources calls GET {base}/top-headlines/sources for the language.
func (c *Client) FetchSources(ctx context.Context, language string) ([]Source, error) {
	v := url.Values{}
	if language != "" {
		v.Set("language", language)
	}
	resp, err := send[sourcesResponse](ctx, c, Endpoint{
		Path:  "top-headlines/sources",
		Query: v,
	})
	if err != nil {
		return nil, err
	}
	return resp.Sources, nil
}
