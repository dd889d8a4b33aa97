package models

import (
	"context"
	"strings"

	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Models struct {
	Users       *UserModel
	Contents    *ContentModel
	Comments    *CommentModel
	Reviews     *ReviewModel
	Clubs       *ClubModel
	Discussions *DiscussionModel
	Messages    *MessageModel
	Blogs       *BlogModel
	News        *NewsModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Users:       &UserModel{db.Conn},
		Contents:    &ContentModel{db.Conn},
		Comments:    &CommentModel{db.Conn},
		Reviews:     &ReviewModel{db.Conn},
		Clubs:       &ClubModel{db.Conn},
		Discussions: &DiscussionModel{db.Conn},
		Messages:    &MessageModel{db.Conn},
		Blogs:       &BlogModel{db.Conn},
		News:        &NewsModel{db.Conn},
	}
}

func collectOne[T any](rows pgx.Rows, err error) (*T, error) {
	if err != nil {
		return nil, postgres.MapError(err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &row, nil
}

func collectAll[T any](rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, postgres.MapError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return out, nil
}

// casUpdate runs an UPDATE guarded by a version check and maps a missing row
// to ErrEditConflict.
func casUpdate(ctx context.Context, db *pgxpool.Pool, query string, args ...any) (int, error) {
	var version int
	err := db.QueryRow(ctx, query, args...).Scan(&version)
	if err != nil {
		return 0, mapCASError(err)
	}
	return version, nil
}

// idSet keeps NOT NULL array columns from receiving a nil slice.
func idSet(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// prefixed qualifies a column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
