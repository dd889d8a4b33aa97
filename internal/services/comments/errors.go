package comments

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrUnknownTarget    = apperr.New(apperr.InvalidInput, "Unknown comment target")
	ErrTargetNotFound   = apperr.New(apperr.NotFound, "Comment target not found")
	ErrCommentNotFound  = apperr.New(apperr.NotFound, "Comment not found")
	ErrNotAuthor        = apperr.New(apperr.Unauthorized, "You can only modify your own comments")
	ErrAlreadyUpvoted   = apperr.New(apperr.Conflict, "You already upvoted this comment")
	ErrAlreadyDownvoted = apperr.New(apperr.Conflict, "You already downvoted this comment")
	ErrNoComments       = apperr.New(apperr.NotFound, "No comments yet")
)
