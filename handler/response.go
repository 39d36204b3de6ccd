package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus sets the status code. Default 200.
func WithStatus(status int) JSONOption {
	return func(j *jsonResponse) {
		j.status = status
	}
}

// JSON encodes v as the response body.
func JSON(v any, opts ...JSONOption) Response {
	j := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

type redirectResponse struct {
	url  string
	code int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.code)
	return nil
}

// Redirect responds with 302 Found to url.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusFound}
}

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// Error hands err to the error handler instead of rendering a body.
func Error(err error) Response {
	return errorResponse{err: err}
}
