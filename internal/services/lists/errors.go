package lists

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrUserNotFound    = apperr.New(apperr.NotFound, "User not found")
	ErrContentNotFound = apperr.New(apperr.NotFound, "Movie not found")
	ErrAlreadyPresent  = apperr.New(apperr.Conflict, "Movie is already in this list")
	ErrNotPresent      = apperr.New(apperr.NotFound, "Movie is not in this list")
	ErrEmptyList       = apperr.New(apperr.NotFound, "List is empty")
	ErrUnknownList     = apperr.New(apperr.InvalidInput, "Unknown list")
)
