package domain

import "errors"

var (
	ErrValidation      = errors.New("invalid input")
	ErrInvalidPollID   = errors.New("invalid poll id")
	ErrPollNotFound    = errors.New("poll not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted")
	ErrPollClosed      = errors.New("poll is closed")
	ErrAlreadyVoted    = errors.New("user has already voted")
	ErrOptionNotFound  = errors.New("invalid option for this poll")
	ErrAlreadyClosed   = errors.New("poll is already closed")
	ErrStoreTimeout    = errors.New("poll store did not respond in time")
	ErrConflict        = errors.New("concurrent write conflict")
	ErrInternal        = errors.New("internal server error")
)
