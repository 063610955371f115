package server

import "errors"

// Server-specific errors
var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrInvalidConfig        = errors.New("invalid server configuration")
	ErrUnknownCommand       = errors.New("unknown command")
)
