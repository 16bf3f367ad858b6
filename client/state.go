package client

import (
	"context"
	"sync"
)

type FeedKind int

const (
	FeedGlobal FeedKind = iota
	FeedYours
	FeedByTag
)

// FeedSelection names which feed is shown: the global feed, the
// viewer's followed-authors feed, or a single tag.
type FeedSelection struct {
	Kind FeedKind
	Tag  string
}

// FeedSnapshot is an immutable copy of the feed state at one moment.
type FeedSnapshot struct {
	Selection FeedSelection
	Loading   bool
	Articles  []Article
	Total     int
	Offset    int
	Err       error
}

// FeedState tracks which feed a consumer is looking at and the last
// fetch result for it. Selection changes clear stale results so a
// slow response for the previous feed is never shown. Safe for
// concurrent use.
type FeedState struct {
	mu sync.Mutex

	selection FeedSelection
	loading   bool
	articles  []Article
	total     int
	offset    int
	err       error

	// generation invalidates in-flight fetches on selection change
	generation uint64
}

func NewFeedState() *FeedState {
	return &FeedState{}
}

func (s *FeedState) SelectGlobal() {
	s.selectFeed(FeedSelection{Kind: FeedGlobal})
}

func (s *FeedState) SelectYours() {
	s.selectFeed(FeedSelection{Kind: FeedYours})
}

func (s *FeedState) SelectTag(tag string) {
	s.selectFeed(FeedSelection{Kind: FeedByTag, Tag: tag})
}

func (s *FeedState) selectFeed(sel FeedSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection == sel {
		return
	}
	s.selection = sel
	s.articles = nil
	s.total = 0
	s.offset = 0
	s.err = nil
	s.loading = false
	s.generation++
}

// FetchStarted marks a fetch in flight and returns a token that
// FetchCompleted and FetchFailed use to discard results that arrive
// after the selection has changed.
func (s *FeedState) FetchStarted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.err = nil
	return s.generation
}

func (s *FeedState) FetchCompleted(token uint64, page *ArticlesPage, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return
	}
	s.loading = false
	s.articles = page.Articles
	s.total = page.ArticlesCount
	s.offset = offset
}

func (s *FeedState) FetchFailed(token uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return
	}
	s.loading = false
	s.err = err
}

func (s *FeedState) Snapshot() FeedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles := make([]Article, len(s.articles))
	copy(articles, s.articles)

	return FeedSnapshot{
		Selection: s.selection,
		Loading:   s.loading,
		Articles:  articles,
		Total:     s.total,
		Offset:    s.offset,
		Err:       s.err,
	}
}

// Refresh fetches the currently selected feed page through the client
// and records the outcome.
func (s *FeedState) Refresh(ctx context.Context, c *Client, limit, offset int) error {
	s.mu.Lock()
	sel := s.selection
	s.mu.Unlock()

	token := s.FetchStarted()

	var (
		page *ArticlesPage
		err  error
	)
	switch sel.Kind {
	case FeedYours:
		page, err = c.Feed(ctx, limit, offset)
	case FeedByTag:
		page, err = c.ListArticles(ctx, ArticlesQuery{Tag: sel.Tag, Limit: limit, Offset: offset})
	default:
		page, err = c.ListArticles(ctx, ArticlesQuery{Limit: limit, Offset: offset})
	}
	if err != nil {
		s.FetchFailed(token, err)
		return err
	}

	s.FetchCompleted(token, page, offset)
	return nil
}
