// Package client is a typed HTTP client for the conduit API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	http.Client
	Addr  string
	Token string
}

type Profile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type Article struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Profile   `json:"author"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Profile   `json:"author"`
}

type User struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// ArticlesPage is one page of a feed plus the total size of the
// filtered set.
type ArticlesPage struct {
	Articles      []Article `json:"articles"`
	ArticlesCount int       `json:"articlesCount"`
}

// ArticlesQuery filters the global feed. Zero values mean "no filter"
// and server-side pagination defaults.
type ArticlesQuery struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

func (q ArticlesQuery) values() url.Values {
	v := url.Values{}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Author != "" {
		v.Set("author", q.Author)
	}
	if q.Favorited != "" {
		v.Set("favorited", q.Favorited)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Errors     map[string][]string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "api error %d", e.StatusCode)
	for field, msgs := range e.Errors {
		fmt.Fprintf(&sb, "; %s: %s", field, strings.Join(msgs, ", "))
	}
	return sb.String()
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]any{"user": map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}}
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", nil, body, &out); err != nil {
		return nil, err
	}
	c.Token = out.User.Token
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]any{"user": map[string]string{
		"email":    email,
		"password": password,
	}}
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.Token = out.User.Token
	return &out.User, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListArticles(ctx context.Context, q ArticlesQuery) (*ArticlesPage, error) {
	var out ArticlesPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Feed(ctx context.Context, limit, offset int) (*ArticlesPage, error) {
	q := ArticlesQuery{Limit: limit, Offset: offset}
	var out ArticlesPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/feed", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArticle(ctx context.Context, slug string) (*Article, error) {
	var out struct {
		Article Article `json:"article"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Article, nil
}

type ArticleDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList,omitempty"`
}

func (c *Client) CreateArticle(ctx context.Context, draft ArticleDraft) (*Article, error) {
	body := map[string]any{"article": draft}
	var out struct {
		Article Article `json:"article"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/articles", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Article, nil
}

func (c *Client) DeleteArticle(ctx context.Context, slug string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/articles/"+url.PathEscape(slug), nil, nil, nil)
}

func (c *Client) FavoriteArticle(ctx context.Context, slug string) (*Article, error) {
	var out struct {
		Article Article `json:"article"`
	}
	path := "/api/articles/" + url.PathEscape(slug) + "/favorite"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Article, nil
}

func (c *Client) UnfavoriteArticle(ctx context.Context, slug string) (*Article, error) {
	var out struct {
		Article Article `json:"article"`
	}
	path := "/api/articles/" + url.PathEscape(slug) + "/favorite"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Article, nil
}

func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var out struct {
		Profile Profile `json:"profile"`
	}
	path := "/api/profiles/" + url.PathEscape(username)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *Client) Follow(ctx context.Context, username string) (*Profile, error) {
	var out struct {
		Profile Profile `json:"profile"`
	}
	path := "/api/profiles/" + url.PathEscape(username) + "/follow"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *Client) Unfollow(ctx context.Context, username string) (*Profile, error) {
	var out struct {
		Profile Profile `json:"profile"`
	}
	path := "/api/profiles/" + url.PathEscape(username) + "/follow"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *Client) ListComments(ctx context.Context, slug string) ([]Comment, error) {
	var out struct {
		Comments []Comment `json:"comments"`
	}
	path := "/api/articles/" + url.PathEscape(slug) + "/comments"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (c *Client) AddComment(ctx context.Context, slug, body string) (*Comment, error) {
	payload := map[string]any{"comment": map[string]string{"body": body}}
	var out struct {
		Comment Comment `json:"comment"`
	}
	path := "/api/articles/" + url.PathEscape(slug) + "/comments"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/tags", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.Addr + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Errors map[string][]string `json:"errors"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil {
			apiErr.Errors = envelope.Errors
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
