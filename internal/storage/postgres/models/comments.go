package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const commentSelect = `SELECT c.id, c.author_id, u.username AS author_username, u.image AS author_image,
	c.target_kind, c.target_id, c.content, c.upvotes, c.downvotes, c.is_edited, c.version,
	c.created_at, c.updated_at
	FROM comments c JOIN users u ON u.id = c.author_id`

type commentRow struct {
	ID             int64     `db:"id"`
	AuthorID       int64     `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	AuthorImage    string    `db:"author_image"`
	TargetKind     string    `db:"target_kind"`
	TargetID       string    `db:"target_id"`
	Content        string    `db:"content"`
	Upvotes        []int64   `db:"upvotes"`
	Downvotes      []int64   `db:"downvotes"`
	IsEdited       bool      `db:"is_edited"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *commentRow) toDomain() *models.Comment {
	return &models.Comment{
		ID:        r.ID,
		Author:    models.UserSummary{ID: r.AuthorID, Username: r.AuthorUsername, Image: r.AuthorImage},
		Target:    models.Target{Kind: models.TargetKind(r.TargetKind), ID: r.TargetID},
		Content:   r.Content,
		Votes:     models.Votes{Up: r.Upvotes, Down: r.Downvotes},
		IsEdited:  r.IsEdited,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type CommentModel struct {
	DB *pgxpool.Pool
}

func (m *CommentModel) Insert(ctx context.Context, authorID int64, target models.Target, content string) (*models.Comment, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		`INSERT INTO comments (author_id, target_kind, target_id, content) VALUES ($1, $2, $3, $4) RETURNING id`,
		authorID,
		string(target.Kind),
		target.ID,
		content,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return m.Get(ctx, id)
}

func (m *CommentModel) Get(ctx context.Context, id int64) (*models.Comment, error) {
	rows, err := m.DB.Query(ctx, commentSelect+` WHERE c.id = $1`, id)
	row, err := collectOne[commentRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// List returns comments on target, newest first.
func (m *CommentModel) List(ctx context.Context, target models.Target, limit, offset int) ([]models.Comment, error) {
	rows, err := m.DB.Query(
		ctx,
		commentSelect+` WHERE c.target_kind = $1 AND c.target_id = $2
		ORDER BY c.created_at DESC, c.id DESC LIMIT $3 OFFSET $4`,
		string(target.Kind),
		target.ID,
		limit,
		offset,
	)
	items, err := collectAll[commentRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

func (m *CommentModel) Update(ctx context.Context, c *models.Comment) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE comments SET version = version + 1, updated_at = now(),
			content = $1, is_edited = $2, upvotes = $3, downvotes = $4
		WHERE id = $5 AND version = $6 RETURNING version`,
		c.Content,
		c.IsEdited,
		idSet(c.Votes.Up),
		idSet(c.Votes.Down),
		c.ID,
		c.Version,
	)
	if err != nil {
		return err
	}
	c.Version = version
	return nil
}

func (m *CommentModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteForTarget drops the comment thread of a removed resource.
func (m *CommentModel) DeleteForTarget(ctx context.Context, target models.Target) error {
	_, err := m.DB.Exec(
		ctx,
		"DELETE FROM comments WHERE target_kind = $1 AND target_id = $2",
		string(target.Kind),
		target.ID,
	)
	return postgres.MapError(err)
}
