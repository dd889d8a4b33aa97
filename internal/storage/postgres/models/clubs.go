package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clubColumns = `id, name, description, image, auto_join, members, admins, banned, pending,
	is_disabled, version, created_at`

type clubRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Image       string    `db:"image"`
	AutoJoin    bool      `db:"auto_join"`
	Members     []int64   `db:"members"`
	Admins      []int64   `db:"admins"`
	Banned      []int64   `db:"banned"`
	Pending     []int64   `db:"pending"`
	IsDisabled  bool      `db:"is_disabled"`
	Version     int       `db:"version"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *clubRow) toDomain() *models.Club {
	return &models.Club{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		AutoJoin:    r.AutoJoin,
		Members:     r.Members,
		Admins:      r.Admins,
		Banned:      r.Banned,
		Pending:     r.Pending,
		IsDisabled:  r.IsDisabled,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
	}
}

type ClubModel struct {
	DB *pgxpool.Pool
}

func (m *ClubModel) Insert(ctx context.Context, c *models.Club) (*models.Club, error) {
	rows, err := m.DB.Query(
		ctx,
		`INSERT INTO clubs (name, description, image, auto_join, members, admins)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+clubColumns,
		c.Name,
		c.Description,
		c.Image,
		c.AutoJoin,
		idSet(c.Members),
		idSet(c.Admins),
	)
	row, err := collectOne[clubRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *ClubModel) Get(ctx context.Context, id int64) (*models.Club, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id)
	row, err := collectOne[clubRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *ClubModel) GetByName(ctx context.Context, name string) (*models.Club, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+clubColumns+` FROM clubs WHERE name = $1`, name)
	row, err := collectOne[clubRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *ClubModel) List(ctx context.Context, limit, offset int) ([]models.Club, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE NOT is_disabled
		ORDER BY cardinality(members) DESC, id ASC LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	items, err := collectAll[clubRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Club, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

// Update stores the membership sets and flags of c guarded by version.
func (m *ClubModel) Update(ctx context.Context, c *models.Club) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE clubs SET version = version + 1, members = $1, admins = $2, banned = $3, pending = $4,
			is_disabled = $5
		WHERE id = $6 AND version = $7 RETURNING version`,
		idSet(c.Members),
		idSet(c.Admins),
		idSet(c.Banned),
		idSet(c.Pending),
		c.IsDisabled,
		c.ID,
		c.Version,
	)
	if err != nil {
		return err
	}
	c.Version = version
	return nil
}

const discussionSelect = `SELECT d.id, d.club_id, d.creator_id, u.username AS creator_username,
	u.image AS creator_image, d.title, d.description, d.upvotes, d.downvotes, d.version, d.created_at
	FROM discussions d JOIN users u ON u.id = d.creator_id`

type discussionRow struct {
	ID              int64     `db:"id"`
	ClubID          int64     `db:"club_id"`
	CreatorID       int64     `db:"creator_id"`
	CreatorUsername string    `db:"creator_username"`
	CreatorImage    string    `db:"creator_image"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Upvotes         []int64   `db:"upvotes"`
	Downvotes       []int64   `db:"downvotes"`
	Version         int       `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r *discussionRow) toDomain() *models.Discussion {
	return &models.Discussion{
		ID:          r.ID,
		ClubID:      r.ClubID,
		Creator:     models.UserSummary{ID: r.CreatorID, Username: r.CreatorUsername, Image: r.CreatorImage},
		Title:       r.Title,
		Description: r.Description,
		Votes:       models.Votes{Up: r.Upvotes, Down: r.Downvotes},
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
	}
}

type DiscussionModel struct {
	DB *pgxpool.Pool
}

func (m *DiscussionModel) Insert(ctx context.Context, clubID, creatorID int64, title, description string) (*models.Discussion, error) {
	var id int64
	err := m.DB.QueryRow(
		ctx,
		"INSERT INTO discussions (club_id, creator_id, title, description) VALUES ($1, $2, $3, $4) RETURNING id",
		clubID,
		creatorID,
		title,
		description,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return m.Get(ctx, id)
}

func (m *DiscussionModel) Get(ctx context.Context, id int64) (*models.Discussion, error) {
	rows, err := m.DB.Query(ctx, discussionSelect+` WHERE d.id = $1`, id)
	row, err := collectOne[discussionRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *DiscussionModel) List(ctx context.Context, clubID int64, limit, offset int) ([]models.Discussion, error) {
	rows, err := m.DB.Query(
		ctx,
		discussionSelect+` WHERE d.club_id = $1 ORDER BY d.created_at DESC, d.id DESC LIMIT $2 OFFSET $3`,
		clubID,
		limit,
		offset,
	)
	items, err := collectAll[discussionRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Discussion, 0, len(items))
	for i := range items {
		out = append(out, *items[i].toDomain())
	}
	return out, nil
}

func (m *DiscussionModel) UpdateVotes(ctx context.Context, d *models.Discussion) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE discussions SET version = version + 1, upvotes = $1, downvotes = $2
		WHERE id = $3 AND version = $4 RETURNING version`,
		idSet(d.Votes.Up),
		idSet(d.Votes.Down),
		d.ID,
		d.Version,
	)
	if err != nil {
		return err
	}
	d.Version = version
	return nil
}

func (m *DiscussionModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM discussions WHERE id = $1", id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
