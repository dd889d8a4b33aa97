package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewSelect = `SELECT r.id, r.author_id, u.username AS author_username, u.image AS author_image,
	r.imdb_id, r.title, r.body, r.image, r.upvotes, r.downvotes, r.reactions, r.version,
	r.created_at, r.updated_at
	FROM reviews r JOIN users u ON u.id = r.author_id`

type reviewRow struct {
	ID             int64            `db:"id"`
	AuthorID       int64            `db:"author_id"`
	AuthorUsername string           `db:"author_username"`
	AuthorImage    string           `db:"author_image"`
	ImdbID         string           `db:"imdb_id"`
	Title          string           `db:"title"`
	Body           string           `db:"body"`
	Image          string           `db:"image"`
	Upvotes        []int64          `db:"upvotes"`
	Downvotes      []int64          `db:"downvotes"`
	Reactions      models.Reactions `db:"reactions"`
	Version        int              `db:"version"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
}

func (r *reviewRow) toDomain() *models.Review {
	reactions := r.Reactions
	if reactions == nil {
		reactions = models.Reactions{}
	}
	return &models.Review{
		ID:        r.ID,
		Author:    models.UserSummary{ID: r.AuthorID, Username: r.AuthorUsername, Image: r.AuthorImage},
		ContentID: r.ImdbID,
		Title:     r.Title,
		Body:      r.Body,
		Image:     r.Image,
		Votes:     models.Votes{Up: r.Upvotes, Down: r.Downvotes},
		Reactions: reactions,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type ReviewModel struct {
	DB *pgxpool.Pool
}

func (m *ReviewModel) Insert(ctx context.Context, authorID int64, imdbID, title, body, image string) (*models.Review, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO reviews (author_id, imdb_id, title, body, image) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		authorID,
		imdbID,
		title,
		body,
		image,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return m.Get(ctx, id)
}

func (m *ReviewModel) Get(ctx context.Context, id int64) (*models.Review, error) {
	rows, err := m.DB.Query(ctx, reviewSelect+` WHERE r.id = $1`, id)
	row, err := collectOne[reviewRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *ReviewModel) ListForContent(ctx context.Context, imdbID string, limit, offset int) ([]models.Review, error) {
	rows, err := m.DB.Query(
		ctx,
		reviewSelect+` WHERE r.imdb_id = $1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2 OFFSET $3`,
		imdbID,
		limit,
		offset,
	)
	items, err := collectAll[reviewRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

// UpdateInteractions stores votes and reactions guarded by version.
func (m *ReviewModel) UpdateInteractions(ctx context.Context, r *models.Review) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE reviews SET version = version + 1, upvotes = $1, downvotes = $2, reactions = $3
		WHERE id = $4 AND version = $5 RETURNING version`,
		idSet(r.Votes.Up),
		idSet(r.Votes.Down),
		r.Reactions,
		r.ID,
		r.Version,
	)
	if err != nil {
		return err
	}
	r.Version = version
	return nil
}

func (m *ReviewModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
