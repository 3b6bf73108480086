package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("invalid or expired session")
	ErrMessageNotFound = errors.New("message not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrForbiddenPath   = errors.New("access denied")

	// ErrUpstream wraps Telegram connectivity/protocol failures. The service
	// never retries on top of the adapter's own budget.
	ErrUpstream = errors.New("telegram unavailable")
)
