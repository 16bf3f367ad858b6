package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"conduit/internal/domain"
)

// errResponse is the wire shape for every error: a map of field (or
// "message") to a list of human-readable messages.
type errResponse struct {
	HTTPStatusCode int `json:"-"`

	Errors map[string][]string `json:"errors"`
}

func (e *errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errValidation(ve *domain.ValidationError) render.Renderer {
	return &errResponse{
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Errors:         ve.Fields,
	}
}

func errMessage(status int, message string) render.Renderer {
	return &errResponse{
		HTTPStatusCode: status,
		Errors:         map[string][]string{"message": {message}},
	}
}

func errMalformedBody() render.Renderer {
	return errMessage(http.StatusUnprocessableEntity, "unable to parse request body")
}

// renderError maps a service error onto the wire. Unknown errors are
// logged and reported as a bare 500 without leaking internals.
func (a *API) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var resp render.Renderer
	if ve, ok := domain.AsValidation(err); ok {
		resp = errValidation(ve)
	} else {
		resp = a.statusRenderer(r, err)
	}

	if renderErr := render.Render(w, r, resp); renderErr != nil {
		a.logger.Error("render error response failed", "error", renderErr)
	}
}

func (a *API) statusRenderer(r *http.Request, err error) render.Renderer {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errMessage(http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return errMessage(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return errMessage(http.StatusForbidden, "forbidden")
	}
	a.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	return errMessage(http.StatusInternalServerError, "internal server error")
}
