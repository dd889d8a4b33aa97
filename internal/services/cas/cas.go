// Package cas retries optimistic read-modify-write cycles.
package cas

import (
	"context"
	"errors"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/metrics"
	"cinetrack/proj/internal/storage"
)

const MaxAttempts = 3

var ErrTooManyConflicts = apperr.New(apperr.Conflict, "The resource was modified concurrently, please try again")

// Do calls fn until it returns anything but storage.ErrEditConflict. fn must
// re-read the state it mutates on every call.
func Do(ctx context.Context, fn func() error) error {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if !errors.Is(err, storage.ErrEditConflict) {
			return err
		}
		metrics.EditConflictsTotal.Inc()
	}
	return ErrTooManyConflicts
}
