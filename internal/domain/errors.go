package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrMissingImage        = errors.New("missing image payload")
	ErrProviderFailure     = errors.New("provider failure")
	ErrTerminalStatus      = errors.New("generation already in terminal status")
)
