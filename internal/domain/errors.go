package domain

import "errors"

// Engine error taxonomy. Services return these (possibly wrapped); handlers
// map them to HTTP status codes.
var (
	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrNoPrizesAvailable   = errors.New("no prizes available on this wheel")
	ErrNotEligible         = errors.New("not eligible for this reward")
	ErrNotCompleted        = errors.New("challenge not completed")
	ErrAlreadyClaimed      = errors.New("challenge reward already claimed")
	ErrContention          = errors.New("operation aborted after repeated contention")
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrIllegalTransition   = errors.New("illegal redemption status transition")
)
