package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/fields"
	"cinetrack/proj/internal/domain/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const contentColumns = `imdb_id, title, year, age_restriction, type, duration, genre, description,
	rating, images, trailer, created_at`

type contentRow struct {
	ImdbID         string    `db:"imdb_id"`
	Title          string    `db:"title"`
	Year           int32     `db:"year"`
	AgeRestriction int32     `db:"age_restriction"`
	Type           string    `db:"type"`
	Duration       int32     `db:"duration"`
	Genre          []string  `db:"genre"`
	Description    string    `db:"description"`
	Rating         float64   `db:"rating"`
	Images         []string  `db:"images"`
	Trailer        string    `db:"trailer"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r *contentRow) toDomain() *models.ContentItem {
	return &models.ContentItem{
		ImdbID:         r.ImdbID,
		Title:          r.Title,
		Year:           r.Year,
		AgeRestriction: r.AgeRestriction,
		Type:           fields.ContentType(r.Type),
		Duration:       fields.Runtime(r.Duration),
		Genre:          r.Genre,
		Description:    r.Description,
		Rating:         r.Rating,
		Images:         r.Images,
		Trailer:        r.Trailer,
		CreatedAt:      r.CreatedAt,
	}
}

type ContentModel struct {
	DB *pgxpool.Pool
}

func (m *ContentModel) Get(ctx context.Context, imdbID string) (*models.ContentItem, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+contentColumns+` FROM contents WHERE imdb_id = $1`, imdbID)
	row, err := collectOne[contentRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *ContentModel) Insert(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	genre, images := c.Genre, c.Images
	if genre == nil {
		genre = []string{}
	}
	if images == nil {
		images = []string{}
	}
	rows, err := m.DB.Query(
		ctx,
		`INSERT INTO contents (imdb_id, title, year, age_restriction, type, duration, genre, description, rating, images, trailer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING `+contentColumns,
		c.ImdbID,
		c.Title,
		c.Year,
		c.AgeRestriction,
		string(c.Type),
		int32(c.Duration),
		genre,
		c.Description,
		c.Rating,
		images,
		c.Trailer,
	)
	row, err := collectOne[contentRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// Summaries resolves ids in the given order. Ids without a catalog entry are
// skipped.
func (m *ContentModel) Summaries(ctx context.Context, ids []string) ([]models.ContentSummary, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+prefixed("c", contentColumns)+` FROM unnest($1::text[]) WITH ORDINALITY AS t(id, ord)
		JOIN contents c ON c.imdb_id = t.id ORDER BY t.ord`,
		ids,
	)
	items, err := collectAll[contentRow](rows, err)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ContentSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, items[i].toDomain().Summary())
	}
	return summaries, nil
}

// Search matches titles containing query as a literal substring,
// case-insensitively, best rated first.
func (m *ContentModel) Search(ctx context.Context, query string, limit, offset int) ([]models.ContentItem, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+contentColumns+` FROM contents
		WHERE strpos(lower(title), lower($1)) > 0
		ORDER BY rating DESC, imdb_id ASC
		LIMIT $2 OFFSET $3`,
		query,
		limit,
		offset,
	)
	items, err := collectAll[contentRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.ContentItem, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}
