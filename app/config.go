package app

import (
	"time"

	"github.com/nutricare/authcore/pkg/httpserver"
	"github.com/nutricare/authcore/pkg/mongo"
	"github.com/nutricare/authcore/pkg/ratelimiter"
	"github.com/nutricare/authcore/pkg/redis"
	"github.com/nutricare/authcore/svc/calendar"
	"github.com/nutricare/authcore/svc/session"
)

// Config is the full process configuration, read from the environment.
type Config struct {
	Env              string        `env:"APP_ENV" envDefault:"production"`
	Name             string        `env:"APP_NAME" envDefault:"authcore"`
	FrontendURL      string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins      []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	TrustProxy       bool          `env:"TRUST_PROXY" envDefault:"false"`
	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"2s"`
	PasswordCost     int           `env:"BCRYPT_COST" envDefault:"10"`

	HTTP      httpserver.Config
	Mongo     mongo.Config
	Redis     redis.Config
	Session   session.Config
	Calendar  calendar.Config
	RateLimit ratelimiter.Config
}

// allowedOrigins falls back to the frontend origin.
func (c Config) allowedOrigins() []string {
	if len(c.CORSOrigins) > 0 {
		return c.CORSOrigins
	}
	return []string{c.FrontendURL}
}
