package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/metrics"
)

const (
	defaultDescription = "Medical Consultation"
	conferenceType     = "hangoutsMeet"

	opExchange    = "exchange"
	opCreateEvent = "create_event"
)

// EventRequest describes a consultation to put on the calendar.
type EventRequest struct {
	SubjectName string
	Reason      string
	Start       time.Time
	End         time.Time
	// RequestID keys the conference create request. A random id is used
	// when empty.
	RequestID string
}

// Event is the created calendar entry.
type Event struct {
	EventID   string `json:"eventId"`
	MeetLink  string `json:"meetLink"`
	EventLink string `json:"eventLink"`
}

// ExchangeError carries the provider's reason for a failed code exchange.
type ExchangeError struct {
	Reason string
	Err    error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExchangeFailed, e.Reason)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

func (e *ExchangeError) Is(target error) bool { return target == ErrExchangeFailed }

// Manager owns the OAuth client configuration and the one delegated
// credential the process holds. It is safe for concurrent use; two
// concurrent exchanges resolve as last writer wins.
type Manager struct {
	cfg     Config
	oauth   *oauth2.Config
	client  *http.Client
	apiOpts []option.ClientOption
	log     *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the base client for token and calendar requests.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		if c != nil {
			m.client = c
		}
	}
}

// WithOAuthEndpoint replaces the Google authorization and token endpoints.
func WithOAuthEndpoint(ep oauth2.Endpoint) Option {
	return func(m *Manager) {
		if m.oauth != nil {
			m.oauth.Endpoint = ep
		}
	}
}

// WithCalendarEndpoint points the Calendar API client at baseURL.
func WithCalendarEndpoint(baseURL string) Option {
	return func(m *Manager) {
		m.apiOpts = append(m.apiOpts, option.WithEndpoint(baseURL))
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMetrics sets the outcome recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.metrics = r
		}
	}
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New builds a Manager from cfg. A configured refresh token seeds the
// manager in StateDelegated.
func New(cfg Config, opts ...Option) *Manager {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	m := &Manager{
		cfg:     cfg,
		log:     logger.Discard(),
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	if cfg.Configured() {
		m.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		}
		if cfg.RefreshToken != "" {
			m.token = &oauth2.Token{RefreshToken: cfg.RefreshToken}
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("calendar"))

	switch {
	case m.oauth == nil:
		m.log.Warn("google oauth credentials not configured, calendar features disabled")
	case m.token == nil:
		m.log.Warn("google oauth configured without refresh token, calendar needs authorization")
	}
	return m
}

// State reports the current delegation state.
func (m *Manager) State() State {
	if m.oauth == nil {
		return StateUnconfigured
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return StateConfiguredNoToken
	}
	return StateDelegated
}

// AuthURL returns the consent URL requesting offline access with forced
// consent. Scopes default to the configured ones.
func (m *Manager) AuthURL(scopes ...string) (string, error) {
	if m.oauth == nil {
		return "", ErrNotConfigured
	}
	c := *m.oauth
	if len(scopes) > 0 {
		c.Scopes = scopes
	}
	return c.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token and holds it. The
// previously held token is kept when the exchange fails.
func (m *Manager) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.oauth == nil {
		return nil, ErrNotConfigured
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMissingCode
	}

	start := m.now()
	tok, err := m.oauth.Exchange(m.context(ctx), code)
	if err != nil {
		m.metrics.RecordCalendarCall(opExchange, metrics.OutcomeError, m.now().Sub(start))
		m.log.WarnContext(ctx, "authorization code exchange failed", logger.Error(err))
		return nil, &ExchangeError{Reason: providerReason(err), Err: err}
	}
	m.metrics.RecordCalendarCall(opExchange, metrics.OutcomeSuccess, m.now().Sub(start))

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	m.log.InfoContext(ctx, "calendar credential stored",
		slog.Bool("has_refresh_token", tok.RefreshToken != ""),
	)
	return tok, nil
}

// CreateEvent creates a consultation event with a Meet conference on the
// configured calendar, refreshing the held token when it has expired.
func (m *Manager) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	if m.oauth == nil {
		return nil, ErrNotConfigured
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidEvent)
	}

	start := m.now()
	ev, err := m.createEvent(ctx, req)
	m.metrics.RecordCalendarCall(opCreateEvent, callOutcome(err), m.now().Sub(start))
	return ev, err
}

func (m *Manager) createEvent(ctx context.Context, req EventRequest) (*Event, error) {
	m.mu.Lock()
	held := m.token
	m.mu.Unlock()
	if held == nil {
		return nil, ErrAuthorizationRequired
	}
	if m.expired(held) && held.RefreshToken == "" {
		m.drop(held)
		m.log.InfoContext(ctx, "calendar credential expired without refresh token")
		return nil, ErrAuthorizationRequired
	}

	tok, err := m.usable(ctx, held, false)
	if err != nil {
		return nil, err
	}
	created, err := m.insert(ctx, tok, req)
	if isUnauthorized(err) && tok.RefreshToken != "" {
		// The access token was revoked or expired in flight; the refresh
		// token may still be good.
		m.log.InfoContext(ctx, "calendar access token rejected, refreshing")
		if tok, err = m.usable(ctx, tok, true); err != nil {
			return nil, err
		}
		created, err = m.insert(ctx, tok, req)
	}
	if err != nil {
		if isUnauthorized(err) {
			m.drop(tok)
			return nil, errors.Join(ErrAuthorizationRequired, err)
		}
		m.log.ErrorContext(ctx, "calendar event insert failed", logger.Error(err))
		return nil, errors.Join(ErrUpstream, err)
	}

	return &Event{
		EventID:   created.Id,
		MeetLink:  created.HangoutLink,
		EventLink: created.HtmlLink,
	}, nil
}

// usable returns an access token for held. With a refresh token it goes
// through the OAuth token source, which refreshes inside the library's
// expiry margin; force refreshes regardless. A refreshed token replaces held.
func (m *Manager) usable(ctx context.Context, held *oauth2.Token, force bool) (*oauth2.Token, error) {
	if held.RefreshToken == "" {
		return held, nil
	}
	src := held
	if force || m.expired(held) {
		stale := *held
		stale.AccessToken = ""
		src = &stale
	}
	tok, err := m.oauth.TokenSource(m.context(ctx), src).Token()
	if err != nil {
		if isInvalidGrant(err) {
			m.drop(held)
			return nil, errors.Join(ErrAuthorizationRequired, err)
		}
		return nil, errors.Join(ErrUpstream, err)
	}
	if tok != held {
		m.swap(held, tok)
	}
	return tok, nil
}

func (m *Manager) insert(ctx context.Context, tok *oauth2.Token, req EventRequest) (*gcal.Event, error) {
	hc := oauth2.NewClient(m.context(ctx), oauth2.StaticTokenSource(tok))
	svc, err := gcal.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(hc)}, m.apiOpts...)...)
	if err != nil {
		return nil, err
	}
	return svc.Events.Insert(m.cfg.CalendarID, m.buildEvent(req)).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
}

func (m *Manager) buildEvent(req EventRequest) *gcal.Event {
	description := strings.TrimSpace(req.Reason)
	if description == "" {
		description = defaultDescription
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &gcal.Event{
		Summary:     "Patient Consultation - " + req.SubjectName,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: m.cfg.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: m.cfg.TimeZone,
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             requestID,
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: conferenceType},
			},
		},
	}
}

// expired reports whether tok cannot be used as is. A token seeded from a
// refresh token alone has no access token yet.
func (m *Manager) expired(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return true
	}
	return !tok.Expiry.IsZero() && !tok.Expiry.After(m.now())
}

// swap stores next only if the held token is still old.
func (m *Manager) swap(old, next *oauth2.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == old {
		m.token = next
	}
}

func (m *Manager) drop(old *oauth2.Token) { m.swap(old, nil) }

func (m *Manager) context(ctx context.Context) context.Context {
	if m.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}

func providerReason(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
		if re.ErrorCode != "" {
			return re.ErrorCode
		}
	}
	return err.Error()
}

func isInvalidGrant(err error) bool {
	var re *oauth2.RetrieveError
	return errors.As(err, &re) && re.ErrorCode == "invalid_grant"
}

func isUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

func callOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrAuthorizationRequired):
		return metrics.OutcomeReauthorize
	default:
		return metrics.OutcomeError
	}
}
