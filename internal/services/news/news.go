// Package news publishes site wide announcements. Authors edit their own
// posts until they are locked; locking and deleting are open to the author
// and to admins.
package news

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

type NewsStorage interface {
	Insert(ctx context.Context, authorID int64, title, description, image string, tags []string) (*models.News, error)
	Get(ctx context.Context, id int64) (*models.News, error)
	List(ctx context.Context, limit, offset int) ([]models.News, error)
	Update(ctx context.Context, n *models.News) error
	Delete(ctx context.Context, id int64) error
}

type CommentStorage interface {
	DeleteForTarget(ctx context.Context, target models.Target) error
}

// Actor is the user performing a moderation action.
type Actor struct {
	ID    int64
	Admin bool
}

func (a Actor) canModerate(n *models.News) bool {
	return a.Admin || n.Author.ID == a.ID
}

type NewsService struct {
	log      *slog.Logger
	news     NewsStorage
	comments CommentStorage
}

func New(log *slog.Logger, news NewsStorage, comments CommentStorage) *NewsService {
	return &NewsService{log: log, news: news, comments: comments}
}

type CreateInput struct {
	Title       string
	Description string
	Image       string
	Tags        []string
}

func (s *NewsService) Create(ctx context.Context, authorID int64, input CreateInput) (*models.News, error) {
	const op = "news.NewsService.Create"
	log := s.log.With("op", op, "author_id", authorID)
	n, err := s.news.Insert(ctx, authorID, input.Title, input.Description, input.Image, input.Tags)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("news published", "news_id", n.ID)
	return n, nil
}

func (s *NewsService) get(ctx context.Context, id int64) (*models.News, error) {
	n, err := s.news.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *NewsService) Get(ctx context.Context, id int64) (*models.News, error) {
	const op = "news.NewsService.Get"
	log := s.log.With("op", op, "news_id", id)
	n, err := s.get(ctx, id)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return n, nil
}

func (s *NewsService) List(ctx context.Context, cursor int) (*pagination.Page[models.News], error) {
	const op = "news.NewsService.List"
	log := s.log.With("op", op, "cursor", cursor)
	rows, err := s.news.List(ctx, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoNews
	}
	if rows == nil {
		rows = []models.News{}
	}
	page := pagination.Trim(rows, cursor, pagination.PageSize)
	return &page, nil
}

// mutate applies fn to a fresh copy of the post and stores it, retrying on
// concurrent edits.
func (s *NewsService) mutate(ctx context.Context, id int64, fn func(n *models.News) error) (*models.News, error) {
	var updated *models.News
	err := cas.Do(ctx, func() error {
		n, err := s.get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(n); err != nil {
			return err
		}
		if err := s.news.Update(ctx, n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	return updated, err
}

type UpdateInput struct {
	Title       *string
	Description *string
	Image       *string
	Tags        []string
}

// Update edits a post. Only its author may do so, and only while unlocked.
func (s *NewsService) Update(ctx context.Context, userID, newsID int64, input UpdateInput) (*models.News, error) {
	const op = "news.NewsService.Update"
	log := s.log.With("op", op, "user_id", userID, "news_id", newsID)
	n, err := s.mutate(ctx, newsID, func(n *models.News) error {
		if n.Author.ID != userID {
			return ErrNotAuthor
		}
		if n.IsLocked {
			return ErrLocked
		}
		if input.Title != nil {
			n.Title = *input.Title
		}
		if input.Description != nil {
			n.Description = *input.Description
		}
		if input.Image != nil {
			n.Image = *input.Image
		}
		if input.Tags != nil {
			n.Tags = input.Tags
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("news updated")
	return n, nil
}

func (s *NewsService) SetLocked(ctx context.Context, actor Actor, newsID int64, locked bool) (*models.News, error) {
	const op = "news.NewsService.SetLocked"
	log := s.log.With("op", op, "user_id", actor.ID, "news_id", newsID, "locked", locked)
	n, err := s.mutate(ctx, newsID, func(n *models.News) error {
		if !actor.canModerate(n) {
			return ErrNotAuthor
		}
		n.IsLocked = locked
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("news lock changed")
	return n, nil
}

// React toggles a reaction of userID and reports whether it is now set.
func (s *NewsService) React(ctx context.Context, userID, newsID int64, kind string) (bool, map[string]int, error) {
	const op = "news.NewsService.React"
	log := s.log.With("op", op, "user_id", userID, "news_id", newsID, "reaction", kind)
	var set bool
	n, err := s.mutate(ctx, newsID, func(n *models.News) error {
		var err error
		set, err = n.Reactions.Toggle(kind, userID)
		if errors.Is(err, models.ErrUnknownReaction) {
			return ErrUnknownReaction
		}
		return err
	})
	if err != nil {
		return false, nil, apperr.Logged(log, err)
	}
	return set, n.Reactions.Counts(), nil
}

func (s *NewsService) Delete(ctx context.Context, actor Actor, newsID int64) error {
	const op = "news.NewsService.Delete"
	log := s.log.With("op", op, "user_id", actor.ID, "news_id", newsID)
	n, err := s.get(ctx, newsID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if !actor.canModerate(n) {
		return apperr.Logged(log, ErrNotAuthor)
	}
	if err := s.news.Delete(ctx, newsID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Logged(log, ErrNewsNotFound)
		}
		return apperr.Logged(log, err)
	}
	target := models.Target{Kind: models.TargetNews, ID: strconv.FormatInt(newsID, 10)}
	if err := s.comments.DeleteForTarget(ctx, target); err != nil {
		log.Warn("failed to delete news comments", "error", err)
	}
	log.Info("news deleted")
	return nil
}
