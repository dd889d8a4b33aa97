package comments

import (
	"context"
	"errors"
	"log/slog"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type CommentStorage interface {
	Insert(ctx context.Context, authorID int64, target models.Target, content string) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context, target models.Target, limit, offset int) ([]models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// Resolver checks that the target with the given id exists. It returns
// storage.ErrNotFound when it does not.
type Resolver func(ctx context.Context, id string) error

type CommentService struct {
	log       *slog.Logger
	comments  CommentStorage
	resolvers map[models.TargetKind]Resolver
}

func New(log *slog.Logger, comments CommentStorage, resolvers map[models.TargetKind]Resolver) *CommentService {
	return &CommentService{log: log, comments: comments, resolvers: resolvers}
}

// View is a comment together with its vote tallies.
type View struct {
	models.Comment
	models.VoteCounts
}

func newView(c *models.Comment) View {
	return View{Comment: *c, VoteCounts: c.Votes.Counts()}
}

func (s *CommentService) resolve(ctx context.Context, target models.Target) error {
	target, err := models.ParseTarget(string(target.Kind), target.ID)
	if err != nil {
		return ErrUnknownTarget
	}
	resolver, ok := s.resolvers[target.Kind]
	if !ok {
		return ErrUnknownTarget
	}
	if err := resolver(ctx, target.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTargetNotFound
		}
		return err
	}
	return nil
}

func (s *CommentService) Add(ctx context.Context, authorID int64, target models.Target, content string) (*View, error) {
	const op = "comments.CommentService.Add"
	log := s.log.With("op", op, "author_id", authorID, "target_kind", target.Kind, "target_id", target.ID)
	if err := s.resolve(ctx, target); err != nil {
		return nil, apperr.Logged(log, err)
	}
	comment, err := s.comments.Insert(ctx, authorID, target, content)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("comment added", "comment_id", comment.ID)
	view := newView(comment)
	return &view, nil
}

func (s *CommentService) get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// mutate runs fn against a fresh copy of the comment and saves it with a
// version check.
func (s *CommentService) mutate(ctx context.Context, id int64, fn func(c *models.Comment) error) (*models.Comment, error) {
	var result *models.Comment
	err := cas.Do(ctx, func() error {
		comment, err := s.get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(comment); err != nil {
			return err
		}
		if err := s.comments.Update(ctx, comment); err != nil {
			return err
		}
		result = comment
		return nil
	})
	return result, err
}

func (s *CommentService) Edit(ctx context.Context, userID, commentID int64, content string) (*View, error) {
	const op = "comments.CommentService.Edit"
	log := s.log.With("op", op, "user_id", userID, "comment_id", commentID)
	comment, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		if c.Author.ID != userID {
			return ErrNotAuthor
		}
		c.Content = content
		c.IsEdited = true
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("comment edited")
	view := newView(comment)
	return &view, nil
}

// Delete removes a comment. Admins may delete any comment.
func (s *CommentService) Delete(ctx context.Context, userID int64, isAdmin bool, commentID int64) error {
	const op = "comments.CommentService.Delete"
	log := s.log.With("op", op, "user_id", userID, "comment_id", commentID)
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if comment.Author.ID != userID && !isAdmin {
		return apperr.Logged(log, ErrNotAuthor)
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Logged(log, ErrCommentNotFound)
		}
		return apperr.Logged(log, err)
	}
	log.Info("comment deleted")
	return nil
}

func (s *CommentService) Upvote(ctx context.Context, userID, commentID int64) (models.VoteCounts, error) {
	const op = "comments.CommentService.Upvote"
	return s.vote(ctx, s.log.With("op", op, "user_id", userID, "comment_id", commentID), commentID, func(v *models.Votes) error {
		if err := v.Upvote(userID); err != nil {
			return ErrAlreadyUpvoted
		}
		return nil
	})
}

func (s *CommentService) Downvote(ctx context.Context, userID, commentID int64) (models.VoteCounts, error) {
	const op = "comments.CommentService.Downvote"
	return s.vote(ctx, s.log.With("op", op, "user_id", userID, "comment_id", commentID), commentID, func(v *models.Votes) error {
		if err := v.Downvote(userID); err != nil {
			return ErrAlreadyDownvoted
		}
		return nil
	})
}

func (s *CommentService) vote(ctx context.Context, log *slog.Logger, commentID int64, fn func(v *models.Votes) error) (models.VoteCounts, error) {
	comment, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		return fn(&c.Votes)
	})
	if err != nil {
		return models.VoteCounts{}, apperr.Logged(log, err)
	}
	return comment.Votes.Counts(), nil
}

// List returns comments on target, newest first.
func (s *CommentService) List(ctx context.Context, target models.Target, cursor int) (*pagination.Page[View], error) {
	const op = "comments.CommentService.List"
	log := s.log.With("op", op, "target_kind", target.Kind, "target_id", target.ID, "cursor", cursor)
	if err := s.resolve(ctx, target); err != nil {
		return nil, apperr.Logged(log, err)
	}
	rows, err := s.comments.List(ctx, target, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoComments
	}
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, newView(&rows[i]))
	}
	page := pagination.Trim(views, cursor, pagination.PageSize)
	return &page, nil
}
