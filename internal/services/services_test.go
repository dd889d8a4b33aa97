package services

import (
	"context"
	"errors"
	"testing"

	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestByNumericID(t *testing.T) {
	calls := 0
	resolve := byNumericID(func(_ context.Context, id int64) (*struct{}, error) {
		calls++
		if id == 7 {
			return &struct{}{}, nil
		}
		return nil, storage.ErrNotFound
	})
	ctx := context.Background()

	assert.NoError(t, resolve(ctx, "7"))
	assert.ErrorIs(t, resolve(ctx, "8"), storage.ErrNotFound)
	assert.ErrorIs(t, resolve(ctx, "abc"), storage.ErrNotFound)
	assert.ErrorIs(t, resolve(ctx, "-1"), storage.ErrNotFound)
	assert.Equal(t, 2, calls, "unparsable ids never reach storage")

	failing := byNumericID(func(context.Context, int64) (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, failing(ctx, "1"), "boom")
}
