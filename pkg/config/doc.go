// Package config loads configuration structs from the process environment.
//
// Values come from real environment variables first; a .env file in the
// working directory (or the files passed to LoadFiles) fills in anything not
// already set. Parsing is done by github.com/caarlos0/env/v11, so structs use
// its tags:
//
//	type Config struct {
//		Secret string        `env:"JWT_SECRET,required"`
//		TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
