package scheduling

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutricare/authcore/handler"
	"github.com/nutricare/authcore/pkg/binder"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/metrics"
	"github.com/nutricare/authcore/pkg/rbac"
	"github.com/nutricare/authcore/pkg/validator"
	"github.com/nutricare/authcore/svc/calendar"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Handler serves /api/consultations.
type Handler struct {
	sessions *session.Service
	calendar *calendar.Manager
	gate     rbac.Gate
	log      *slog.Logger
	metrics  metrics.Recorder
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMetrics records denied requests.
func WithMetrics(m metrics.Recorder) Option {
	return func(h *Handler) {
		if m != nil {
			h.metrics = m
		}
	}
}

// New returns a Handler gated to clinicians. Admins pass any gate.
func New(sessions *session.Service, cal *calendar.Manager, opts ...Option) *Handler {
	h := &Handler{
		sessions: sessions,
		calendar: cal,
		gate:     rbac.Require(identity.RoleDoctor),
		log:      logger.Discard(),
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("scheduling_api"))
	return h
}

// Handle returns the router for /api/consultations.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	render := handler.ErrorRenderer(h.log)
	onError := handler.NewErrorHandler(h.log)

	r.Use(h.sessions.Middleware(render))
	r.Use(rbac.Middleware(h.gate, func(w http.ResponseWriter, r *http.Request, err error) {
		var fe *rbac.ForbiddenError
		if errors.As(err, &fe) {
			h.metrics.RecordAccessDenied(fe.Actual)
		}
		render(w, r, err)
	}))

	r.Post("/schedule", handler.Wrap(h.schedule,
		handler.WithBinders[handler.Context, scheduleRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, scheduleRequest](onError),
	))
	r.Get("/calendar", handler.Wrap(h.calendarState,
		handler.WithErrorHandler[handler.Context, struct{}](onError),
	))
	return r
}

type scheduleRequest struct {
	PatientName   string    `json:"patientName"`
	Reason        string    `json:"reason"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	AppointmentID string    `json:"appointmentId"`
}

func (h *Handler) schedule(ctx handler.Context, req scheduleRequest) handler.Response {
	req.PatientName = strings.TrimSpace(req.PatientName)
	if err := validator.Apply(
		validator.Required("patientName", req.PatientName),
		validator.SetTime("startTime", req.StartTime),
		validator.SetTime("endTime", req.EndTime),
		validator.After("endTime", req.EndTime, req.StartTime),
	); err != nil {
		return handler.Error(err)
	}

	ev, err := h.calendar.CreateEvent(ctx, calendar.EventRequest{
		SubjectName: req.PatientName,
		Reason:      req.Reason,
		Start:       req.StartTime,
		End:         req.EndTime,
		RequestID:   req.AppointmentID,
	})
	if err != nil {
		return handler.Error(err)
	}

	if id, ok := identity.FromContext(ctx); ok {
		h.log.InfoContext(ctx, "consultation scheduled",
			logger.UserID(id.ID()),
			slog.String("event_id", ev.EventID),
		)
	}
	return handler.JSON(map[string]any{"success": true, "event": ev},
		handler.WithStatus(http.StatusCreated))
}

func (h *Handler) calendarState(_ handler.Context, _ struct{}) handler.Response {
	state := h.calendar.State()
	return handler.JSON(map[string]any{
		"success":    true,
		"state":      state.String(),
		"configured": state != calendar.StateUnconfigured,
	})
}
