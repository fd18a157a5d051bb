package apperror

import "errors"

var (
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrInvalidVariant   = errors.New("invalid game variant")
	ErrMalformedGesture = errors.New("malformed gesture")
	ErrSessionFaulted   = errors.New("session has an unresolved error")
	ErrRoundInProgress  = errors.New("round is still being revealed")
	ErrSessionNotFound  = errors.New("session not found")
)
