package models

import "errors"

// Domain error kinds. Transition and factory errors wrap one of these so
// callers can classify failures with errors.Is and map them to responses.
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrValidation         = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("precondition failed")
)
