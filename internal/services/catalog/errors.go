package catalog

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrContentNotFound      = apperr.New(apperr.NotFound, "Movie not found")
	ErrContentAlreadyExists = apperr.New(apperr.Conflict, "A movie with this IMDb id already exists")
	ErrEmptyQuery           = apperr.New(apperr.InvalidInput, "Search query must not be empty")
)
