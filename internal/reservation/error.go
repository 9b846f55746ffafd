package reservation

import "errors"

var (
	ErrInvalidRange       = errors.New("check-out must be after check-in")
	ErrMalformedTimestamp = errors.New("malformed date or time")
	ErrIdempotencyKey     = errors.New("idempotency key not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrSessionRequired    = errors.New("authenticated session required")
	ErrSessionExpired     = errors.New("session expired")
)
