package services

import "errors"

// Error taxonomy shared by the services. Callers match with errors.Is; the
// wrapped message carries the entity and the reason.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state for operation")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrOperationInFlight  = errors.New("another operation on this resource is in progress")
	ErrUnauthorized       = errors.New("unauthorized")
)
