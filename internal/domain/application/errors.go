package application

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("application not found")
	ErrUnauthorized = errors.New("admin privileges required")
)
