package calendar

// Default OAuth scopes requested for calendar delegation.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}

// Config is read from the process environment. Every field is optional;
// a missing client id or secret leaves the manager unconfigured.
type Config struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URI"`
	RefreshToken string   `env:"GOOGLE_REFRESH_TOKEN"`
	Scopes       []string `env:"GOOGLE_CALENDAR_SCOPES" envSeparator:","`
	TimeZone     string   `env:"GOOGLE_CALENDAR_TIMEZONE" envDefault:"Asia/Kolkata"`
	CalendarID   string   `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
}

// Configured reports whether client credentials are present.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
