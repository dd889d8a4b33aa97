package lists

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type UserStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLists(ctx context.Context, user *models.User) error
}

type ContentStorage interface {
	Get(ctx context.Context, imdbID string) (*models.ContentItem, error)
	Summaries(ctx context.Context, ids []string) ([]models.ContentSummary, error)
}

type ListService struct {
	log      *slog.Logger
	users    UserStorage
	contents ContentStorage
	now      func() time.Time
}

func New(log *slog.Logger, users UserStorage, contents ContentStorage) *ListService {
	return &ListService{
		log:      log,
		users:    users,
		contents: contents,
		now:      time.Now,
	}
}

func (s *ListService) loadUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Add puts imdbID into list. Status lists (watchlist, watching, completed)
// are mutually exclusive, so the item leaves the other two.
func (s *ListService) Add(ctx context.Context, userID int64, imdbID string, list models.ListName) error {
	const op = "lists.ListService.Add"
	log := s.log.With("op", op, "user_id", userID, "imdb_id", imdbID, "list", list)
	if _, err := models.ParseListName(string(list)); err != nil {
		return ErrUnknownList
	}
	if _, err := s.loadUser(ctx, userID); err != nil {
		return apperr.Logged(log, err)
	}
	if _, err := s.contents.Get(ctx, imdbID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("content not found")
			return ErrContentNotFound
		}
		return apperr.Logged(log, err)
	}
	err := cas.Do(ctx, func() error {
		user, err := s.loadUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.Lists.Add(list, imdbID, s.now().UTC()); err != nil {
			if errors.Is(err, models.ErrAlreadyPresent) {
				return ErrAlreadyPresent
			}
			return err
		}
		return s.users.UpdateLists(ctx, user)
	})
	if err != nil {
		return apperr.Logged(log, err)
	}
	log.Info("content added to list")
	return nil
}

func (s *ListService) Remove(ctx context.Context, userID int64, imdbID string, list models.ListName) error {
	const op = "lists.ListService.Remove"
	log := s.log.With("op", op, "user_id", userID, "imdb_id", imdbID, "list", list)
	if _, err := models.ParseListName(string(list)); err != nil {
		return ErrUnknownList
	}
	err := cas.Do(ctx, func() error {
		user, err := s.loadUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := user.Lists.Remove(list, imdbID); err != nil {
			if errors.Is(err, models.ErrNotPresent) {
				return ErrNotPresent
			}
			return err
		}
		return s.users.UpdateLists(ctx, user)
	})
	if err != nil {
		return apperr.Logged(log, err)
	}
	log.Info("content removed from list")
	return nil
}

// Get returns one page of content summaries from list, in the order items
// were added.
func (s *ListService) Get(ctx context.Context, userID int64, list models.ListName, cursor int) (*pagination.Page[models.ContentSummary], error) {
	const op = "lists.ListService.Get"
	log := s.log.With("op", op, "user_id", userID, "list", list, "cursor", cursor)
	if _, err := models.ParseListName(string(list)); err != nil {
		return nil, ErrUnknownList
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	entries := user.Lists.Get(list)
	if len(entries) == 0 {
		return nil, ErrEmptyList
	}
	start, end := pagination.Window(cursor, pagination.ListPageSize, len(entries))
	ids := make([]string, 0, end-start)
	for _, e := range entries[start:end] {
		ids = append(ids, e.ContentID)
	}
	summaries := []models.ContentSummary{}
	if len(ids) > 0 {
		summaries, err = s.contents.Summaries(ctx, ids)
		if err != nil {
			return nil, apperr.Logged(log, err)
		}
	}
	return &pagination.Page[models.ContentSummary]{
		Items: summaries,
		Next:  pagination.Next(cursor, pagination.ListPageSize, len(entries)),
	}, nil
}
