package store

import "time"

// Source is a news provider entry. Selected is user-local state; everything
// else comes from the remote API.
type Source struct {
	ID       string
	Name     string
	URL      string
	Category string
	Selected bool
}

// Article is a persisted news item. Articles are only written when the user
// saves them; identity is the (SourceName, URL, PublishedAt) triple.
type Article struct {
	SourceID     string
	SourceName   string
	Author       string
	Title        string
	Description  string
	URL          string
	ThumbnailURL string
	PublishedAt  time.Time
	Saved        bool
}
