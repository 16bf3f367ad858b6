package domain

import "time"

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

type Article struct {
	ID             int64     `json:"-"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	AuthorID       int64     `json:"-"`
	Author         Profile   `json:"author"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Profile   `json:"author"`
}

// ArticleFilter selects a page of the global article feed. All set
// filters are ANDed. Tag matching is exact and case-sensitive.
type ArticleFilter struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// Normalize clamps pagination to sane bounds: limit to
// [1, MaxFeedLimit] (DefaultFeedLimit when unset or negative), offset
// to >= 0. Out-of-range values are clamped rather than rejected.
func (f *ArticleFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultFeedLimit
	}
	if f.Limit > MaxFeedLimit {
		f.Limit = MaxFeedLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
