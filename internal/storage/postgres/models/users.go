package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, verification_code, is_verified, is_disabled,
	disabled_at, role, bio, image, is_private, awards, social_links, lists, friends, sent_requests,
	pending_requests, followers, following, version, created_at, updated_at`

type userRow struct {
	ID               int64             `db:"id"`
	Username         string            `db:"username"`
	Email            string            `db:"email"`
	PasswordHash     []byte            `db:"password_hash"`
	VerificationCode string            `db:"verification_code"`
	IsVerified       bool              `db:"is_verified"`
	IsDisabled       bool              `db:"is_disabled"`
	DisabledAt       *time.Time        `db:"disabled_at"`
	Role             string            `db:"role"`
	Bio              string            `db:"bio"`
	Image            string            `db:"image"`
	IsPrivate        bool              `db:"is_private"`
	Awards           []string          `db:"awards"`
	SocialLinks      map[string]string `db:"social_links"`
	Lists            models.Lists      `db:"lists"`
	Friends          []int64           `db:"friends"`
	SentRequests     []int64           `db:"sent_requests"`
	PendingRequests  []int64           `db:"pending_requests"`
	Followers        []int64           `db:"followers"`
	Following        []int64           `db:"following"`
	Version          int               `db:"version"`
	CreatedAt        time.Time         `db:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at"`
}

func (r *userRow) toDomain() *models.User {
	u := &models.User{
		ID:               r.ID,
		Username:         r.Username,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		VerificationCode: r.VerificationCode,
		IsVerified:       r.IsVerified,
		IsDisabled:       r.IsDisabled,
		DisabledAt:       r.DisabledAt,
		Role:             r.Role,
		Bio:              r.Bio,
		Image:            r.Image,
		IsPrivate:        r.IsPrivate,
		Awards:           r.Awards,
		SocialLinks:      r.SocialLinks,
		Lists:            r.Lists,
		Social: models.Social{
			Friends:         r.Friends,
			SentRequests:    r.SentRequests,
			PendingRequests: r.PendingRequests,
			Followers:       r.Followers,
			Following:       r.Following,
		},
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	u.Lists.Normalize()
	u.Social.Normalize()
	if u.SocialLinks == nil {
		u.SocialLinks = map[string]string{}
	}
	if u.Awards == nil {
		u.Awards = []string{}
	}
	return u
}

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, err := m.DB.Query(
		ctx,
		`INSERT INTO users (username, email, password_hash, verification_code, is_verified, image)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.VerificationCode,
		user.IsVerified,
		user.Image,
	)
	row, err := collectOne[userRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *UserModel) get(ctx context.Context, where string, arg any) (*models.User, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	row, err := collectOne[userRow](rows, err)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.get(ctx, "id = $1", id)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.get(ctx, "username = $1", username)
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.get(ctx, "email = $1", email)
}

// UpdateAccount stores the account and profile fields of user if nobody
// changed the row since it was read.
func (m *UserModel) UpdateAccount(ctx context.Context, user *models.User) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE users SET version = version + 1, updated_at = now(),
			password_hash = $1, verification_code = $2, is_verified = $3, is_disabled = $4,
			disabled_at = $5, bio = $6, image = $7, is_private = $8, social_links = $9, awards = $10
		WHERE id = $11 AND version = $12 RETURNING version`,
		user.PasswordHash,
		user.VerificationCode,
		user.IsVerified,
		user.IsDisabled,
		user.DisabledAt,
		user.Bio,
		user.Image,
		user.IsPrivate,
		user.SocialLinks,
		user.Awards,
		user.ID,
		user.Version,
	)
	if err != nil {
		return err
	}
	user.Version = version
	return nil
}

func (m *UserModel) UpdateLists(ctx context.Context, user *models.User) error {
	version, err := casUpdate(
		ctx, m.DB,
		`UPDATE users SET version = version + 1, updated_at = now(), lists = $1
		WHERE id = $2 AND version = $3 RETURNING version`,
		user.Lists,
		user.ID,
		user.Version,
	)
	if err != nil {
		return err
	}
	user.Version = version
	return nil
}

// UpdateSocial stores the social edges of every given user in one
// transaction. Either all versions match or nothing is written.
func (m *UserModel) UpdateSocial(ctx context.Context, users ...*models.User) error {
	versions := make([]int, len(users))
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		for i, u := range users {
			err := tx.QueryRow(
				ctx,
				`UPDATE users SET version = version + 1, updated_at = now(),
					friends = $1, sent_requests = $2, pending_requests = $3, followers = $4, following = $5
				WHERE id = $6 AND version = $7 RETURNING version`,
				idSet(u.Social.Friends),
				idSet(u.Social.SentRequests),
				idSet(u.Social.PendingRequests),
				idSet(u.Social.Followers),
				idSet(u.Social.Following),
				u.ID,
				u.Version,
			).Scan(&versions[i])
			if err != nil {
				return mapCASError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, u := range users {
		u.Version = versions[i]
	}
	return nil
}

func (m *UserModel) Summaries(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT u.id, u.username, u.image FROM unnest($1::bigint[]) WITH ORDINALITY AS t(id, ord)
		JOIN users u ON u.id = t.id ORDER BY t.ord`,
		ids,
	)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserSummary, error) {
		var s models.UserSummary
		err := row.Scan(&s.ID, &s.Username, &s.Image)
		return s, err
	})
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return summaries, nil
}

// DeleteDisabledBefore removes accounts disabled before t.
func (m *UserModel) DeleteDisabledBefore(ctx context.Context, t time.Time) (int, error) {
	return m.purge(ctx, `is_disabled AND disabled_at < $1`, t)
}

// DeleteUnverifiedBefore removes accounts created before t that were never
// verified.
func (m *UserModel) DeleteUnverifiedBefore(ctx context.Context, t time.Time) (int, error) {
	return m.purge(ctx, `NOT is_verified AND created_at < $1`, t)
}

// votedTables hold upvotes/downvotes id arrays, reactedTables a reactions
// jsonb map of kind to id array.
var (
	votedTables   = []string{"comments", "reviews", "discussions"}
	reactedTables = []string{"reviews", "news"}
)

// purge deletes the matching users and scrubs their ids from the social
// edges of others, club membership sets, votes and review reactions. Clubs
// left without an admin are deleted as well.
func (m *UserModel) purge(ctx context.Context, where string, arg any) (int, error) {
	var deleted []int64
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `DELETE FROM users WHERE `+where+` RETURNING id`, arg)
		if err != nil {
			return err
		}
		deleted, err = pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return err
		}
		for _, id := range deleted {
			if _, err := tx.Exec(
				ctx,
				`UPDATE users SET version = version + 1,
					friends = array_remove(friends, $1), sent_requests = array_remove(sent_requests, $1),
					pending_requests = array_remove(pending_requests, $1),
					followers = array_remove(followers, $1), following = array_remove(following, $1)
				WHERE $1 = ANY(friends || sent_requests || pending_requests || followers || following)`,
				id,
			); err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx,
				`UPDATE clubs SET version = version + 1,
					members = array_remove(members, $1), admins = array_remove(admins, $1),
					banned = array_remove(banned, $1), pending = array_remove(pending, $1)
				WHERE $1 = ANY(members || banned || pending)`,
				id,
			); err != nil {
				return err
			}
			for _, table := range votedTables {
				if _, err := tx.Exec(
					ctx,
					`UPDATE `+table+` SET version = version + 1,
						upvotes = array_remove(upvotes, $1), downvotes = array_remove(downvotes, $1)
					WHERE $1 = ANY(upvotes || downvotes)`,
					id,
				); err != nil {
					return err
				}
			}
			for _, table := range reactedTables {
				if _, err := tx.Exec(
					ctx,
					`UPDATE `+table+` SET version = version + 1, reactions = (
					SELECT COALESCE(jsonb_object_agg(kind, CASE jsonb_typeof(ids)
						WHEN 'array' THEN COALESCE(
							(SELECT jsonb_agg(uid) FROM jsonb_array_elements(ids) AS uid WHERE uid <> to_jsonb($1::bigint)),
							'[]'::jsonb)
						ELSE ids END), '{}'::jsonb)
					FROM jsonb_each(reactions) AS r(kind, ids))
				WHERE jsonb_path_exists(reactions, '$.*[*] ? (@ == $id)', jsonb_build_object('id', $1::bigint))`,
					id,
				); err != nil {
					return err
				}
			}
		}
		if len(deleted) > 0 {
			_, err = tx.Exec(ctx, `DELETE FROM clubs WHERE cardinality(admins) = 0`)
		}
		return err
	})
	if err != nil {
		return 0, postgres.MapError(err)
	}
	return len(deleted), nil
}
