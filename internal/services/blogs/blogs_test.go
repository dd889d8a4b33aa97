package blogs

import (
	"context"
	"testing"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBlogs struct {
	mock.Mock
}

func (m *mockBlogs) Insert(ctx context.Context, authorID int64, title, content string, related []string) (*models.Blog, error) {
	args := m.Called(ctx, authorID, title, content, related)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func (m *mockBlogs) Get(ctx context.Context, id int64) (*models.Blog, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Blog)
	if b != nil {
		cp := *b
		return &cp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlogs) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Blog, error) {
	args := m.Called(ctx, authorID, limit, offset)
	rows, _ := args.Get(0).([]models.Blog)
	return rows, args.Error(1)
}

func (m *mockBlogs) Update(ctx context.Context, b *models.Blog) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBlogs) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockComments struct {
	mock.Mock
}

func (m *mockComments) DeleteForTarget(ctx context.Context, target models.Target) error {
	return m.Called(ctx, target).Error(0)
}

func existingBlog() *models.Blog {
	return &models.Blog{ID: 3, Author: models.UserSummary{ID: 1}, Title: "Old", Content: "body"}
}

func TestUpdateOnlyByAuthor(t *testing.T) {
	ctx := context.Background()
	blogs := new(mockBlogs)
	blogs.On("Get", ctx, int64(3)).Return(existingBlog(), nil)
	blogs.On("Update", ctx, mock.MatchedBy(func(b *models.Blog) bool { return b.Title == "New" && b.Content == "body" })).Return(nil)
	s := New(logger.Discard(), blogs, new(mockUsers), new(mockComments))

	title := "New"
	_, err := s.Update(ctx, 2, 3, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotAuthor)

	blog, err := s.Update(ctx, 1, 3, UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", blog.Title)
	blogs.AssertNumberOfCalls(t, "Update", 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	blogs, comments := new(mockBlogs), new(mockComments)
	blogs.On("Get", ctx, int64(3)).Return(existingBlog(), nil)
	blogs.On("Get", ctx, int64(4)).Return(nil, storage.ErrNotFound)
	blogs.On("Delete", ctx, int64(3)).Return(nil)
	comments.On("DeleteForTarget", ctx, models.Target{Kind: models.TargetBlog, ID: "3"}).Return(nil)
	s := New(logger.Discard(), blogs, new(mockUsers), comments)

	assert.ErrorIs(t, s.Delete(ctx, 1, 4), ErrBlogNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 2, 3), ErrNotAuthor)
	require.NoError(t, s.Delete(ctx, 1, 3))
	comments.AssertExpectations(t)
}

func TestListByAuthor(t *testing.T) {
	ctx := context.Background()
	blogs, users := new(mockBlogs), new(mockUsers)
	users.On("GetByUsername", ctx, "alice").Return(&models.User{ID: 1}, nil)
	users.On("GetByUsername", ctx, "ghost").Return(nil, storage.ErrNotFound)
	blogs.On("ListByAuthor", ctx, int64(1), 11, 0).Return([]models.Blog{*existingBlog()}, nil)
	blogs.On("ListByAuthor", ctx, int64(1), 11, 10).Return([]models.Blog(nil), nil)
	s := New(logger.Discard(), blogs, users, new(mockComments))

	page, err := s.ListByAuthor(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.Next)

	page, err = s.ListByAuthor(ctx, "alice", 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	_, err = s.ListByAuthor(ctx, "ghost", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
