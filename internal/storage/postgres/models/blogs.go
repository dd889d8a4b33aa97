package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const blogSelect = `SELECT b.id, b.author_id, u.username AS author_username, u.image AS author_image,
	b.title, b.content, b.related_content, b.version, b.created_at, b.updated_at
	FROM blogs b JOIN users u ON u.id = b.author_id`

type blogRow struct {
	ID             int64     `db:"id"`
	AuthorID       int64     `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	AuthorImage    string    `db:"author_image"`
	Title          string    `db:"title"`
	Content        string    `db:"content"`
	RelatedContent []string  `db:"related_content"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *blogRow) toDomain() *models.Blog {
	return &models.Blog{
		ID:             r.ID,
		Author:         models.UserSummary{ID: r.AuthorID, Username: r.AuthorUsername, Image: r.AuthorImage},
		Title:          r.Title,
		Content:        r.Content,
		RelatedContent: r.RelatedContent,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type BlogModel struct {
	DB *pgxpool.Pool
}

func (m *BlogModel) Insert(ctx context.Context, authorID int64, title, content string, related []string) (*models.Blog, error) {
	if related == nil {
		related = []string{}
	}
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO blogs (author_id, title, content, related_content) VALUES ($1, $2, $3, $4) RETURNING id",
		authorID,
		title,
		content,
		related,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return m.Get(ctx, id)
}

func (m *BlogModel) Get(ctx context.Context, id int64) (*models.Blog, error) {
	rows, err := m.DB.Query(ctx, blogSelect+` WHERE b.id = $1`, id)
	row, err := collectOne[blogRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *BlogModel) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Blog, error) {
	rows, err := m.DB.Query(
		ctx,
		blogSelect+` WHERE b.author_id = $1 ORDER BY b.created_at DESC, b.id DESC LIMIT $2 OFFSET $3`,
		authorID,
		limit,
		offset,
	)
	items, err := collectAll[blogRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Blog, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

func (m *BlogModel) Update(ctx context.Context, b *models.Blog) error {
	related := b.RelatedContent
	if related == nil {
		related = []string{}
	}
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE blogs SET version = version + 1, updated_at = now(), title = $1, content = $2, related_content = $3
		WHERE id = $4 AND version = $5 RETURNING version`,
		b.Title,
		b.Content,
		related,
		b.ID,
		b.Version,
	)
	if err != nil {
		return err
	}
	b.Version = version
	return nil
}

func (m *BlogModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM blogs WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
