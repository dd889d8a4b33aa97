package reviews

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrContentNotFound  = apperr.New(apperr.NotFound, "Movie not found")
	ErrReviewNotFound   = apperr.New(apperr.NotFound, "Review not found")
	ErrNoReviews        = apperr.New(apperr.NotFound, "No reviews yet")
	ErrNotAuthor        = apperr.New(apperr.Unauthorized, "You can only delete your own reviews")
	ErrAlreadyUpvoted   = apperr.New(apperr.Conflict, "You already upvoted this review")
	ErrAlreadyDownvoted = apperr.New(apperr.Conflict, "You already downvoted this review")
	ErrUnknownReaction  = apperr.New(apperr.InvalidInput, "Unknown reaction")
)
