package models

import (
	"errors"

	"cinetrack/proj/internal/storage"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
)

func mapCASError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrEditConflict
	}
	return postgres.MapError(err)
}
