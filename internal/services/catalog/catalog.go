package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/storage"
)

type ContentStorage interface {
	Get(ctx context.Context, imdbID string) (*models.ContentItem, error)
	Insert(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.ContentItem, error)
}

type CatalogService struct {
	log     *slog.Logger
	storage ContentStorage
}

func New(log *slog.Logger, storage ContentStorage) *CatalogService {
	return &CatalogService{
		log:     log,
		storage: storage,
	}
}

func (s *CatalogService) Get(ctx context.Context, imdbID string) (*models.ContentItem, error) {
	const op = "catalog.CatalogService.Get"
	log := s.log.With("op", op, "imdb_id", imdbID)
	item, err := s.storage.Get(ctx, imdbID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("content not found")
			return nil, ErrContentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	const op = "catalog.CatalogService.Create"
	log := s.log.With("op", op, "imdb_id", item.ImdbID, "title", item.Title)
	created, err := s.storage.Insert(ctx, item)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("content already exists")
			return nil, ErrContentAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	log.Info("content created")
	return created, nil
}

// Search returns one page of titles matching query, best rated first.
func (s *CatalogService) Search(ctx context.Context, query string, cursor int) (*pagination.Page[models.ContentItem], error) {
	const op = "catalog.CatalogService.Search"
	log := s.log.With("op", op, "query", query, "cursor", cursor)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	rows, err := s.storage.Search(ctx, query, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	page := pagination.Trim(rows, cursor, pagination.PageSize)
	return &page, nil
}

// SearchFirstPages walks result pages until they run out or the cursor
// reaches pagination.SearchPagesLimit.
func (s *CatalogService) SearchFirstPages(ctx context.Context, query string) ([]pagination.Page[models.ContentItem], error) {
	var pages []pagination.Page[models.ContentItem]
	cursor := 0
	for {
		page, err := s.Search(ctx, query, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
		if page.Next == nil || *page.Next >= pagination.SearchPagesLimit {
			return pages, nil
		}
		cursor = *page.Next
	}
}
