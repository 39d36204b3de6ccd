package mongo

import "time"

// Config holds connection settings.
type Config struct {
	URI            string        `env:"MONGODB_URI,required"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"nutricare"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"50"`
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`
}
