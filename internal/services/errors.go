package services

import "errors"

// Service-level failures the transport layer maps onto HTTP statuses and
// response codes.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidToken   = errors.New("invalid scan token")
	ErrTokenExpired   = errors.New("scan token expired")
	ErrTokenUsed      = errors.New("scan token already used")
	ErrBudgetExceeded = errors.New("owner budget exceeded")
	ErrRateLimited    = errors.New("rate limit exceeded")
)
