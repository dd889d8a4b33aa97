package comments

import (
	"context"
	"sync"
	"testing"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memComments struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Comment
}

func newMemComments() *memComments {
	return &memComments{rows: make(map[int64]models.Comment)}
}

func (m *memComments) Insert(_ context.Context, authorID int64, target models.Target, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := models.Comment{ID: m.nextID, Author: models.UserSummary{ID: authorID}, Target: target, Content: content, Version: 1}
	m.rows[c.ID] = c
	return &c, nil
}

func (m *memComments) Get(_ context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Votes.Up = append([]int64(nil), c.Votes.Up...)
	c.Votes.Down = append([]int64(nil), c.Votes.Down...)
	return &c, nil
}

func (m *memComments) List(_ context.Context, target models.Target, limit, offset int) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for id := m.nextID; id > 0; id-- {
		if c, ok := m.rows[id]; ok && c.Target == target {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (m *memComments) Update(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[c.ID]
	if !ok || cur.Version != c.Version {
		return storage.ErrEditConflict
	}
	c.Version++
	m.rows[c.ID] = *c
	return nil
}

func (m *memComments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func newTestService() *CommentService {
	movies := func(_ context.Context, id string) error {
		if id != "tt0111161" {
			return storage.ErrNotFound
		}
		return nil
	}
	return New(logger.Discard(), newMemComments(), map[models.TargetKind]Resolver{
		models.TargetMovie: movies,
	})
}

var movie = models.Target{Kind: models.TargetMovie, ID: "tt0111161"}

func TestAddValidatesTarget(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.Add(ctx, 1, models.Target{Kind: "podcast", ID: "1"}, "hi")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = s.Add(ctx, 1, models.Target{Kind: models.TargetBlog, ID: "1"}, "hi")
	assert.ErrorIs(t, err, ErrUnknownTarget, "kind without resolver")

	_, err = s.Add(ctx, 1, models.Target{Kind: models.TargetMovie, ID: "tt0000000"}, "hi")
	assert.ErrorIs(t, err, ErrTargetNotFound)

	view, err := s.Add(ctx, 1, movie, "great")
	require.NoError(t, err)
	assert.Equal(t, "great", view.Content)
	assert.Equal(t, 0, view.Upvotes)
}

func TestEditAndDeletePermissions(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	c, err := s.Add(ctx, 1, movie, "first")
	require.NoError(t, err)

	_, err = s.Edit(ctx, 2, c.ID, "hijack")
	assert.ErrorIs(t, err, ErrNotAuthor)

	edited, err := s.Edit(ctx, 1, c.ID, "second")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	assert.Equal(t, "second", edited.Content)

	assert.ErrorIs(t, s.Delete(ctx, 2, false, c.ID), ErrNotAuthor)
	assert.NoError(t, s.Delete(ctx, 2, true, c.ID))
	assert.ErrorIs(t, s.Delete(ctx, 1, false, c.ID), ErrCommentNotFound)
}

func TestVotesAreExclusive(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	c, err := s.Add(ctx, 1, movie, "vote me")
	require.NoError(t, err)

	counts, err := s.Upvote(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Upvotes: 1}, counts)

	_, err = s.Upvote(ctx, 2, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyUpvoted)

	counts, err = s.Downvote(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Downvotes: 1}, counts)

	_, err = s.Downvote(ctx, 2, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyDownvoted)
}

func TestConcurrentUpvotes(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	c, err := s.Add(ctx, 1, movie, "popular")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for uid := int64(10); uid < 14; uid++ {
		uid := uid
		wg.Add(1)
		go func() {
			defer wg.Done()
			// conflicts past the retry budget are acceptable, lost votes are not
			_, _ = s.Upvote(ctx, uid, c.ID)
		}()
	}
	wg.Wait()

	stored, err := s.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	for _, uid := range stored.Votes.Up {
		assert.NotContains(t, stored.Votes.Down, uid)
	}
	assert.Equal(t, stored.Version-1, len(stored.Votes.Up))
}

func TestListPaging(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.List(ctx, movie, 0)
	assert.ErrorIs(t, err, ErrNoComments)

	for i := 0; i < 12; i++ {
		_, err := s.Add(ctx, 1, movie, "c")
		require.NoError(t, err)
	}
	page, err := s.List(ctx, movie, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	require.NotNil(t, page.Next)
	assert.Equal(t, 10, *page.Next)
	assert.Equal(t, int64(12), page.Items[0].ID, "newest first")

	page, err = s.List(ctx, movie, *page.Next)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Next)

	page, err = s.List(ctx, movie, 40)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}
