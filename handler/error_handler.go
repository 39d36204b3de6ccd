package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nutricare/authcore/core"
	"github.com/nutricare/authcore/pkg/environment"
	"github.com/nutricare/authcore/pkg/logger"
)

// ErrorBody is the JSON envelope for failed requests.
type ErrorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// WriteError translates err and writes the envelope. Detail is included
// when the request context carries the development environment.
func WriteError(w http.ResponseWriter, r *http.Request, err error) core.HTTPError {
	he := core.Translate(err, environment.FromContext(r.Context()).IsDevelopment())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(he.Code)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Success: false,
		Message: he.Message,
		Code:    he.Key,
		Error:   he.Detail,
		Errors:  he.Fields,
	})
	return he
}

// ErrorRenderer returns a middleware-friendly renderer that logs and then
// writes the envelope. Client errors log at warn, server errors at error.
func ErrorRenderer(log *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		he := WriteError(w, r, err)
		level := slog.LevelWarn
		if he.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Error(err),
			slog.Int("status_code", he.Code),
			slog.String("error_kind", he.Key),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)
	}
}

// NewErrorHandler adapts ErrorRenderer to Wrap.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	render := ErrorRenderer(log)
	return func(ctx Context, err error) {
		render(ctx.ResponseWriter(), ctx.Request(), err)
	}
}
