package httpapi

import (
	"net/http"

	"conduit/internal/domain"
	"conduit/internal/service"
)

//--
// Request payloads. Every request body wraps its entity in a named
// envelope ("user", "article", "comment"); Bind runs after decoding.
//--

type userRequest struct {
	User struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

func (u *userRequest) Bind(r *http.Request) error {
	return nil
}

type articleRequest struct {
	Article struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Body        *string  `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

func (a *articleRequest) Bind(r *http.Request) error {
	return nil
}

func (a *articleRequest) input() service.ArticleInput {
	input := service.ArticleInput{TagList: a.Article.TagList}
	if a.Article.Title != nil {
		input.Title = *a.Article.Title
	}
	if a.Article.Description != nil {
		input.Description = *a.Article.Description
	}
	if a.Article.Body != nil {
		input.Body = *a.Article.Body
	}
	return input
}

func (a *articleRequest) update() service.ArticleUpdate {
	return service.ArticleUpdate{
		Title:       a.Article.Title,
		Description: a.Article.Description,
		Body:        a.Article.Body,
	}
}

type commentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

func (c *commentRequest) Bind(r *http.Request) error {
	return nil
}

//--
// Response payloads.
//--

type userResponse struct {
	User userPayload `json:"user"`
}

type userPayload struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

func newUserResponse(au *service.AuthenticatedUser) *userResponse {
	return &userResponse{User: userPayload{
		Username: au.User.Username,
		Email:    au.User.Email,
		Token:    au.Token,
		Bio:      au.User.Bio,
		Image:    au.User.Image,
	}}
}

func (u *userResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type profileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

func newProfileResponse(profile *domain.Profile) *profileResponse {
	return &profileResponse{Profile: profile}
}

func (p *profileResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type articleResponse struct {
	Article *domain.Article `json:"article"`
}

func newArticleResponse(article *domain.Article) *articleResponse {
	return &articleResponse{Article: article}
}

func (a *articleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// articlesResponse carries a page of articles along with the total
// count of the filtered set, so clients can page past the first page.
type articlesResponse struct {
	Articles      []domain.Article `json:"articles"`
	ArticlesCount int              `json:"articlesCount"`
}

func newArticlesResponse(articles []domain.Article, total int) *articlesResponse {
	if articles == nil {
		articles = []domain.Article{}
	}
	return &articlesResponse{Articles: articles, ArticlesCount: total}
}

func (a *articlesResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type commentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

func newCommentResponse(comment *domain.Comment) *commentResponse {
	return &commentResponse{Comment: comment}
}

func (c *commentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type commentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

func newCommentsResponse(comments []domain.Comment) *commentsResponse {
	if comments == nil {
		comments = []domain.Comment{}
	}
	return &commentsResponse{Comments: comments}
}

func (c *commentsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

func newTagsResponse(tags []string) *tagsResponse {
	if tags == nil {
		tags = []string{}
	}
	return &tagsResponse{Tags: tags}
}

func (t *tagsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
