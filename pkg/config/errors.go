package config

import "errors"

var (
	ErrNilPointer  = errors.New("config: nil pointer passed to loader")
	ErrParsing     = errors.New("config: failed to parse environment")
	ErrEnvFileLoad = errors.New("config: failed to read env file")
)
