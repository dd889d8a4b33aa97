package news

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrNewsNotFound    = apperr.New(apperr.NotFound, "News not found")
	ErrNoNews          = apperr.New(apperr.NotFound, "No news yet")
	ErrNotAuthor       = apperr.New(apperr.Unauthorized, "You are not allowed to modify this news")
	ErrLocked          = apperr.New(apperr.InvalidInput, "This news is locked")
	ErrUnknownReaction = apperr.New(apperr.InvalidInput, "Unknown reaction")
)
