package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutricare/authcore/handler"
	"github.com/nutricare/authcore/pkg/binder"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/svc/auth"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Handler serves /api/users. Every route requires a session.
type Handler struct {
	auth     *auth.Service
	sessions *session.Service
	log      *slog.Logger
}

// New returns a Handler. A nil logger discards.
func New(svc *auth.Service, sessions *session.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		auth:     svc,
		sessions: sessions,
		log:      log.With(logger.Component("account_api")),
	}
}

// Handle returns the router for /api/users.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(h.sessions.Middleware(handler.ErrorRenderer(h.log)))

	r.Put("/password", handler.Wrap(h.changePassword,
		handler.WithBinders[handler.Context, changePasswordRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, changePasswordRequest](handler.NewErrorHandler(h.log)),
	))
	return r
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(ctx handler.Context, req changePasswordRequest) handler.Response {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return handler.Error(session.ErrMissingToken)
	}
	if err := h.auth.ChangePassword(ctx, id.ID(), req.CurrentPassword, req.NewPassword); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Password updated successfully",
	})
}
