package social

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

// memUsers keeps copies of users and enforces versions the way the
// postgres model does.
type memUsers struct {
	mu       sync.Mutex
	users    map[int64]models.User
	failNext int
}

func newMemUsers(names ...string) *memUsers {
	m := &memUsers{users: map[int64]models.User{}}
	for i, name := range names {
		id := int64(i + 1)
		m.users[id] = models.User{ID: id, Username: name, Version: 1}
	}
	return m
}

func clone(u models.User) *models.User {
	u.Social = models.Social{
		Friends:         append([]int64{}, u.Social.Friends...),
		SentRequests:    append([]int64{}, u.Social.SentRequests...),
		PendingRequests: append([]int64{}, u.Social.PendingRequests...),
		Followers:       append([]int64{}, u.Social.Followers...),
		Following:       append([]int64{}, u.Social.Following...),
	}
	return &u
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(u), nil
}

func (m *memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == name {
			return clone(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) UpdateSocial(_ context.Context, users ...*models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext > 0 {
		m.failNext--
		return storage.ErrEditConflict
	}
	for _, u := range users {
		if m.users[u.ID].Version != u.Version {
			return storage.ErrEditConflict
		}
	}
	for _, u := range users {
		u.Version++
		m.users[u.ID] = *clone(*u)
	}
	return nil
}

func (m *memUsers) Summaries(_ context.Context, ids []int64) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, models.UserSummary{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

func TestFriendLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemUsers("alice", "bob")
	s := New(logger.Discard(), store)

	require.NoError(t, s.AddFriend(ctx, 1, "bob"))
	assert.ErrorIs(t, s.AddFriend(ctx, 1, "bob"), ErrRequestExists)
	assert.ErrorIs(t, s.AddFriend(ctx, 2, "alice"), ErrReverseRequest)

	requests, err := s.FriendRequests(ctx, 2)
	require.NoError(t, err)
	require.Len(t, requests.Incoming, 1)
	assert.Equal(t, "alice", requests.Incoming[0].Username)

	require.NoError(t, s.AcceptFriend(ctx, 2, "alice"))
	assert.ErrorIs(t, s.AddFriend(ctx, 1, "bob"), ErrAlreadyFriends)

	friends, err := s.Friends(ctx, 1)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	require.NoError(t, s.RemoveFriend(ctx, 1, "bob"))
	bob, _ := store.GetByID(ctx, 2)
	assert.Empty(t, bob.Social.Friends)
}

func TestRejectFriend(t *testing.T) {
	ctx := context.Background()
	store := newMemUsers("alice", "bob")
	s := New(logger.Discard(), store)
	assert.ErrorIs(t, s.RejectFriend(ctx, 2, "alice"), ErrNoFriendRequest)
	require.NoError(t, s.AddFriend(ctx, 1, "bob"))
	require.NoError(t, s.RejectFriend(ctx, 2, "alice"))
	assert.ErrorIs(t, s.AcceptFriend(ctx, 2, "alice"), ErrNoFriendRequest)
}

func TestSelfAndMissing(t *testing.T) {
	ctx := context.Background()
	s := New(logger.Discard(), newMemUsers("alice"))
	assert.ErrorIs(t, s.AddFriend(ctx, 1, "alice"), ErrSelfRelation)
	assert.ErrorIs(t, s.Follow(ctx, 1, "alice"), ErrSelfRelation)
	assert.ErrorIs(t, s.AddFriend(ctx, 1, "ghost"), ErrUserNotFound)
}

func TestFollowIndependentOfFriendship(t *testing.T) {
	ctx := context.Background()
	store := newMemUsers("alice", "bob")
	s := New(logger.Discard(), store)
	require.NoError(t, s.Follow(ctx, 1, "bob"))
	require.NoError(t, s.Follow(ctx, 1, "bob"))

	followers, err := s.Followers(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, followers, 1)
	following, err := s.Following(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, following, 1)

	alice, _ := store.GetByID(ctx, 1)
	assert.Empty(t, alice.Social.Friends)

	require.NoError(t, s.Unfollow(ctx, 1, "bob"))
	followers, err = s.Followers(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestRetriesEditConflict(t *testing.T) {
	ctx := context.Background()
	store := newMemUsers("alice", "bob")
	store.failNext = 2
	s := New(logger.Discard(), store)
	require.NoError(t, s.AddFriend(ctx, 1, "bob"))
	bob, _ := store.GetByID(ctx, 2)
	assert.Equal(t, []int64{1}, bob.Social.PendingRequests)
}

func TestConcurrentRequestsStaySymmetric(t *testing.T) {
	ctx := context.Background()
	store := newMemUsers("alice", "bob", "carol", "dave")
	s := New(logger.Discard(), store)
	var wg sync.WaitGroup
	for _, name := range []string{"alice", "carol", "dave"} {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := map[string]int64{"alice": 1, "carol": 3, "dave": 4}[name]
			for i := 0; i < 3; i++ {
				if err := s.AddFriend(ctx, id, "bob"); err == nil {
					return
				}
			}
		}()
	}
	wg.Wait()
	bob, _ := store.GetByID(ctx, 2)
	for _, id := range bob.Social.PendingRequests {
		requester, _ := store.GetByID(ctx, id)
		assert.Contains(t, requester.Social.SentRequests, int64(2))
	}
}
