package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutricare/authcore/handler"
	"github.com/nutricare/authcore/pkg/binder"
	"github.com/nutricare/authcore/pkg/clientip"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/ratelimiter"
	authsvc "github.com/nutricare/authcore/svc/auth"
	"github.com/nutricare/authcore/svc/calendar"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Handler serves /api/auth.
type Handler struct {
	auth        *authsvc.Service
	sessions    *session.Service
	calendar    *calendar.Manager
	limiter     ratelimiter.Limiter
	frontendURL string
	log         *slog.Logger
	onError     handler.ErrorHandler[handler.Context]
}

// Option configures a Handler.
type Option func(*Handler)

// WithLimiter throttles register and login per client and path.
func WithLimiter(l ratelimiter.Limiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// New returns a Handler. frontendURL is where the consent callback sends the
// browser back to.
func New(auth *authsvc.Service, sessions *session.Service, cal *calendar.Manager, frontendURL string, opts ...Option) *Handler {
	h := &Handler{
		auth:        auth,
		sessions:    sessions,
		calendar:    cal,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("auth_api"))
	h.onError = handler.NewErrorHandler(h.log)
	return h
}

// Handle returns the router for /api/auth.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	renderErr := handler.ErrorRenderer(h.log)

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(ratelimiter.Middleware(h.limiter, ratelimiter.ByClientIPAndPath, renderErr))
		}
		r.Post("/register", handler.Wrap(h.register,
			handler.WithBinders[handler.Context, registerRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, registerRequest](h.onError),
		))
		r.Post("/login", handler.Wrap(h.login,
			handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, loginRequest](h.onError),
		))
	})

	r.Get("/google", handler.Wrap(h.googleConsent,
		handler.WithErrorHandler[handler.Context, struct{}](h.onError),
	))
	r.Get("/google/callback", handler.Wrap(h.googleCallback,
		handler.WithBinders[handler.Context, codeRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, codeRequest](h.onError),
	))
	r.Get("/google/auth-url", handler.Wrap(h.googleAuthURL,
		handler.WithErrorHandler[handler.Context, struct{}](h.onError),
	))

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware(renderErr))
		r.Get("/google/store-token", handler.Wrap(h.storeToken,
			handler.WithBinders[handler.Context, codeRequest](binder.Query()),
			handler.WithErrorHandler[handler.Context, codeRequest](h.onError),
		))
		r.Get("/verify", handler.Wrap(h.verify,
			handler.WithErrorHandler[handler.Context, struct{}](h.onError),
		))
		r.Get("/me", handler.Wrap(h.me,
			handler.WithErrorHandler[handler.Context, struct{}](h.onError),
		))
	})

	return r
}

type registerRequest struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	DOB       birthdate `json:"dob"`
	Relation  string    `json:"relation"`
}

type registeredUser struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	DOB       *string `json:"dob"`
	Relation  string  `json:"relation,omitempty"`
}

func (h *Handler) register(ctx handler.Context, req registerRequest) handler.Response {
	id, err := h.auth.Register(ctx, authsvc.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		DOB:       time.Time(req.DOB),
		Relation:  req.Relation,
	})
	if err != nil {
		return handler.Error(err)
	}

	p := id.Patient
	dob := p.DOB.UTC().Format(time.RFC3339)
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Registration successful",
		"user": registeredUser{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			DOB:       &dob,
			Relation:  p.Relation,
		},
	}, handler.WithStatus(http.StatusCreated))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(ctx handler.Context, req loginRequest) handler.Response {
	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(err)
	}

	r := ctx.Request()
	ip := &ipInfo{IPAddress: clientip.FromContext(r.Context()), UserAgent: r.UserAgent()}
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   res.Token.Value,
		"user":    userView(res.Identity, ip),
	})
}

type codeRequest struct {
	Code string `query:"code"`
}

func (h *Handler) googleConsent(_ handler.Context, _ struct{}) handler.Response {
	u, err := h.calendar.AuthURL()
	if err != nil {
		return handler.Error(err)
	}
	return handler.Redirect(u)
}

func (h *Handler) googleAuthURL(_ handler.Context, _ struct{}) handler.Response {
	u, err := h.calendar.AuthURL()
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{"success": true, "authUrl": u})
}

// googleCallback always answers with a browser redirect to the frontend.
func (h *Handler) googleCallback(ctx handler.Context, req codeRequest) handler.Response {
	tok, err := h.calendar.Exchange(ctx, req.Code)
	if err != nil {
		h.log.WarnContext(ctx, "consent callback failed", logger.Error(err))
		return handler.Redirect(h.frontendURL + "/error")
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return handler.Redirect(h.frontendURL + "/error")
	}
	return handler.Redirect(h.frontendURL + "?tokens=" + url.QueryEscape(string(raw)))
}

func (h *Handler) storeToken(ctx handler.Context, req codeRequest) handler.Response {
	tok, err := h.calendar.Exchange(ctx, req.Code)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]any{
		"success":         true,
		"message":         "OAuth tokens received and stored",
		"hasRefreshToken": tok.RefreshToken != "",
	})
}

func (h *Handler) verify(ctx handler.Context, _ struct{}) handler.Response {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return handler.Error(session.ErrMissingToken)
	}
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Token is valid",
		"user": map[string]any{
			"id":      id.ID(),
			"role":    id.Role(),
			"isAdmin": id.IsAdmin(),
		},
	})
}

func (h *Handler) me(ctx handler.Context, _ struct{}) handler.Response {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return handler.Error(session.ErrMissingToken)
	}
	return handler.JSON(map[string]any{"success": true, "user": userView(id, nil)})
}
