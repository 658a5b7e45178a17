package redis

import "errors"

var (
	// ErrInvalidConnectionURL is returned when the connection URL cannot
	// be parsed.
	ErrInvalidConnectionURL = errors.New("invalid redis connection url")

	// ErrNotReady is returned when the server did not answer a ping within
	// the configured attempts.
	ErrNotReady = errors.New("redis did not become ready")

	// ErrHealthcheckFailed is returned by the healthcheck when a ping fails.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
