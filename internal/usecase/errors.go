package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrSeasonNotBootstrapped means a smart update was requested for a
	// season that was never imported. Remediation: run bootstrap first.
	ErrSeasonNotBootstrapped = errors.New("season not bootstrapped")
)
