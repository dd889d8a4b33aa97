package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const newsSelect = `SELECT n.id, n.author_id, u.username AS author_username, u.image AS author_image,
	n.title, n.description, n.image, n.tags, n.reactions, n.is_locked, n.version, n.created_at, n.updated_at
	FROM news n JOIN users u ON u.id = n.author_id`

type newsRow struct {
	ID             int64            `db:"id"`
	AuthorID       int64            `db:"author_id"`
	AuthorUsername string           `db:"author_username"`
	AuthorImage    string           `db:"author_image"`
	Title          string           `db:"title"`
	Description    string           `db:"description"`
	Image          string           `db:"image"`
	Tags           []string         `db:"tags"`
	Reactions      models.Reactions `db:"reactions"`
	IsLocked       bool             `db:"is_locked"`
	Version        int              `db:"version"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
}

func (r *newsRow) toDomain() *models.News {
	reactions := r.Reactions
	if reactions == nil {
		reactions = models.Reactions{}
	}
	return &models.News{
		ID:          r.ID,
		Author:      models.UserSummary{ID: r.AuthorID, Username: r.AuthorUsername, Image: r.AuthorImage},
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Tags:        r.Tags,
		Reactions:   reactions,
		Counts:      reactions.Counts(),
		IsLocked:    r.IsLocked,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type NewsModel struct {
	DB *pgxpool.Pool
}

func (m *NewsModel) Insert(ctx context.Context, authorID int64, title, description, image string, tags []string) (*models.News, error) {
	if tags == nil {
		tags = []string{}
	}
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO news (author_id, title, description, image, tags) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		authorID,
		title,
		description,
		image,
		tags,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return m.Get(ctx, id)
}

func (m *NewsModel) Get(ctx context.Context, id int64) (*models.News, error) {
	rows, err := m.DB.Query(ctx, newsSelect+` WHERE n.id = $1`, id)
	row, err := collectOne[newsRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// List returns the newest posts first.
func (m *NewsModel) List(ctx context.Context, limit, offset int) ([]models.News, error) {
	rows, err := m.DB.Query(
		ctx,
		newsSelect+` ORDER BY n.created_at DESC, n.id DESC LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	items, err := collectAll[newsRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.News, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

// Update stores every mutable field guarded by version.
func (m *NewsModel) Update(ctx context.Context, n *models.News) error {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	reactions := n.Reactions
	if reactions == nil {
		reactions = models.Reactions{}
	}
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE news SET version = version + 1, updated_at = now(),
			title = $1, description = $2, image = $3, tags = $4, reactions = $5, is_locked = $6
		WHERE id = $7 AND version = $8 RETURNING version`,
		n.Title,
		n.Description,
		n.Image,
		tags,
		reactions,
		n.IsLocked,
		n.ID,
		n.Version,
	)
	if err != nil {
		return err
	}
	n.Version = version
	return nil
}

func (m *NewsModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM news WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
