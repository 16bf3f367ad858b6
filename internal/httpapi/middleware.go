package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

type ctxKey int

const principalKey ctxKey = iota

// resolvePrincipal reads the Authorization header and, when a token is
// present, puts the authenticated user ID on the request context. Both
// "Token <jwt>" and "Bearer <jwt>" schemes are accepted. A missing
// header leaves the request anonymous; a present but invalid token is
// rejected with 401.
func (a *API) resolvePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromHeader(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.tokens.Resolve(raw)
		if err != nil {
			a.renderError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects anonymous requests with 401.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := principalFrom(r.Context()); !ok {
			_ = render.Render(w, r, errMessage(http.StatusUnauthorized, "unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func principalFrom(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(principalKey).(int64)
	return userID, ok
}

// viewerFrom returns the principal as an optional viewer ID for
// endpoints that also serve anonymous requests.
func viewerFrom(ctx context.Context) *int64 {
	if userID, ok := principalFrom(ctx); ok {
		return &userID
	}
	return nil
}

// mustPrincipal is for handlers behind requireAuth; the middleware
// guarantees the principal is set.
func mustPrincipal(ctx context.Context) int64 {
	userID, ok := principalFrom(ctx)
	if !ok {
		panic("principal missing on authenticated route")
	}
	return userID
}

func tokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
