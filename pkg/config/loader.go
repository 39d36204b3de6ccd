package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load parses environment variables into v after loading the default .env
// file once per process. A missing .env file is not an error.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() { _ = godotenv.Load() })
	return parse(v)
}

// LoadFiles loads the given env files and then parses into v. Variables
// already present in the environment win over file values.
func LoadFiles[T any](v *T, files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return errors.Join(ErrEnvFileLoad, err)
		}
	}
	return parse(v)
}

// MustLoad is Load that panics on failure. Intended for process startup.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

func parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}
