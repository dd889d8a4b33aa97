package profile

import (
	"context"
	"encoding/json"
	"testing"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) UpdateAccount(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func privateUser() *models.User {
	return &models.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: []byte("secret-hash"),
		IsPrivate:    true,
		Social: models.Social{
			Friends:         []int64{2, 3},
			SentRequests:    []int64{4},
			PendingRequests: []int64{5},
		},
	}
}

func TestGetVisibility(t *testing.T) {
	ctx := context.Background()
	users := new(mockUsers)
	users.On("GetByUsername", ctx, "alice").Return(privateUser(), nil)
	users.On("GetByUsername", ctx, "ghost").Return(nil, storage.ErrNotFound)
	s := New(logger.Discard(), users)

	testCases := []struct {
		name    string
		viewer  int64
		wantErr error
	}{
		{"owner", 1, nil},
		{"friend", 2, nil},
		{"stranger", 9, ErrPrivateProfile},
		{"anonymous", 0, ErrPrivateProfile},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := s.Get(ctx, "alice", tc.viewer)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", view.Username)
		})
	}

	_, err := s.Get(ctx, "ghost", 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRenderHidesPrivateFields(t *testing.T) {
	user := privateUser()

	owner, err := json.Marshal(Render(user, 1))
	require.NoError(t, err)
	var ownerView map[string]any
	require.NoError(t, json.Unmarshal(owner, &ownerView))
	assert.Equal(t, []any{float64(2), float64(3)}, ownerView["friends"])
	assert.Contains(t, ownerView, "sentFriendRequests")
	assert.Contains(t, ownerView, "pendingFriendRequests")
	assert.NotContains(t, string(owner), "secret-hash")

	friend, err := json.Marshal(Render(user, 2))
	require.NoError(t, err)
	var friendView map[string]any
	require.NoError(t, json.Unmarshal(friend, &friendView))
	assert.Equal(t, float64(2), friendView["friends"])
	assert.NotContains(t, friendView, "sentFriendRequests")
	assert.NotContains(t, friendView, "pendingFriendRequests")
	assert.NotContains(t, string(friend), "secret-hash")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	users := new(mockUsers)
	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)
	users.On("UpdateAccount", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Bio == "film nerd" && u.IsPrivate
	})).Return(nil)

	bio, private := "film nerd", true
	view, err := New(logger.Discard(), users).Update(ctx, 1, UpdateInput{Bio: &bio, IsPrivate: &private})
	require.NoError(t, err)
	assert.True(t, view.IsPrivate)
	users.AssertExpectations(t)
}
