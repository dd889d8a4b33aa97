package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type ReviewStorage interface {
	Insert(ctx context.Context, authorID int64, imdbID, title, body, image string) (*models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	ListForContent(ctx context.Context, imdbID string, limit, offset int) ([]models.Review, error)
	UpdateInteractions(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id int64) error
}

type ContentStorage interface {
	Get(ctx context.Context, imdbID string) (*models.ContentItem, error)
}

// CommentStorage is used to drop the comment thread of a deleted review.
type CommentStorage interface {
	DeleteForTarget(ctx context.Context, target models.Target) error
}

type ReviewService struct {
	log      *slog.Logger
	reviews  ReviewStorage
	contents ContentStorage
	comments CommentStorage
}

func New(log *slog.Logger, reviews ReviewStorage, contents ContentStorage, comments CommentStorage) *ReviewService {
	return &ReviewService{log: log, reviews: reviews, contents: contents, comments: comments}
}

type View struct {
	models.Review
	models.VoteCounts
	Reactions map[string]int `json:"reactions"`
}

func newView(r *models.Review) View {
	return View{Review: *r, VoteCounts: r.Votes.Counts(), Reactions: r.Reactions.Counts()}
}

type WriteInput struct {
	ImdbID string
	Title  string
	Body   string
	Image  string
}

func (s *ReviewService) Write(ctx context.Context, authorID int64, input WriteInput) (*View, error) {
	const op = "reviews.ReviewService.Write"
	log := s.log.With("op", op, "author_id", authorID, "imdb_id", input.ImdbID)
	if _, err := s.contents.Get(ctx, input.ImdbID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Logged(log, ErrContentNotFound)
		}
		return nil, apperr.Logged(log, err)
	}
	review, err := s.reviews.Insert(ctx, authorID, input.ImdbID, input.Title, input.Body, input.Image)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("review written", "review_id", review.ID)
	view := newView(review)
	return &view, nil
}

func (s *ReviewService) get(ctx context.Context, id int64) (*models.Review, error) {
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.Reactions == nil {
		review.Reactions = models.Reactions{}
	}
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*View, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "review_id", id)
	review, err := s.get(ctx, id)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	view := newView(review)
	return &view, nil
}

func (s *ReviewService) ListForContent(ctx context.Context, imdbID string, cursor int) (*pagination.Page[View], error) {
	const op = "reviews.ReviewService.ListForContent"
	log := s.log.With("op", op, "imdb_id", imdbID, "cursor", cursor)
	if _, err := s.contents.Get(ctx, imdbID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Logged(log, ErrContentNotFound)
		}
		return nil, apperr.Logged(log, err)
	}
	rows, err := s.reviews.ListForContent(ctx, imdbID, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoReviews
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, newView(&rows[i]))
	}
	page := pagination.Trim(views, cursor, pagination.PageSize)
	return &page, nil
}

func (s *ReviewService) mutate(ctx context.Context, id int64, fn func(r *models.Review) error) (*models.Review, error) {
	var result *models.Review
	err := cas.Do(ctx, func() error {
		review, err := s.get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(review); err != nil {
			return err
		}
		if err := s.reviews.UpdateInteractions(ctx, review); err != nil {
			return err
		}
		result = review
		return nil
	})
	return result, err
}

func (s *ReviewService) Upvote(ctx context.Context, userID, reviewID int64) (models.VoteCounts, error) {
	const op = "reviews.ReviewService.Upvote"
	log := s.log.With("op", op, "user_id", userID, "review_id", reviewID)
	review, err := s.mutate(ctx, reviewID, func(r *models.Review) error {
		if err := r.Votes.Upvote(userID); err != nil {
			return ErrAlreadyUpvoted
		}
		return nil
	})
	if err != nil {
		return models.VoteCounts{}, apperr.Logged(log, err)
	}
	return review.Votes.Counts(), nil
}

func (s *ReviewService) Downvote(ctx context.Context, userID, reviewID int64) (models.VoteCounts, error) {
	const op = "reviews.ReviewService.Downvote"
	log := s.log.With("op", op, "user_id", userID, "review_id", reviewID)
	review, err := s.mutate(ctx, reviewID, func(r *models.Review) error {
		if err := r.Votes.Downvote(userID); err != nil {
			return ErrAlreadyDownvoted
		}
		return nil
	})
	if err != nil {
		return models.VoteCounts{}, apperr.Logged(log, err)
	}
	return review.Votes.Counts(), nil
}

// React toggles the user's reaction of the given kind. It reports whether
// the reaction is set afterwards.
func (s *ReviewService) React(ctx context.Context, userID, reviewID int64, kind string) (bool, map[string]int, error) {
	const op = "reviews.ReviewService.React"
	log := s.log.With("op", op, "user_id", userID, "review_id", reviewID, "reaction", kind)
	var set bool
	review, err := s.mutate(ctx, reviewID, func(r *models.Review) error {
		var err error
		set, err = r.Reactions.Toggle(kind, userID)
		if errors.Is(err, models.ErrUnknownReaction) {
			return ErrUnknownReaction
		}
		return err
	})
	if err != nil {
		return false, nil, apperr.Logged(log, err)
	}
	return set, review.Reactions.Counts(), nil
}

func (s *ReviewService) Reactions(ctx context.Context, reviewID int64) (map[string]int, error) {
	const op = "reviews.ReviewService.Reactions"
	log := s.log.With("op", op, "review_id", reviewID)
	review, err := s.get(ctx, reviewID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return review.Reactions.Counts(), nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "user_id", userID, "review_id", reviewID)
	review, err := s.get(ctx, reviewID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if review.Author.ID != userID {
		return apperr.Logged(log, ErrNotAuthor)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Logged(log, ErrReviewNotFound)
		}
		return apperr.Logged(log, err)
	}
	target := models.Target{Kind: models.TargetReview, ID: strconv.FormatInt(reviewID, 10)}
	if err := s.comments.DeleteForTarget(ctx, target); err != nil {
		log.Warn("failed to delete review comments", "error", err)
	}
	log.Info("review deleted")
	return nil
}
