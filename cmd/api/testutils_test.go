package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"cinetrack/proj/internal/config"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/services"
	"cinetrack/proj/internal/services/auth"
	"cinetrack/proj/internal/services/lists"
	"cinetrack/proj/internal/services/social"
	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	mu   sync.Mutex
	rows map[int64]*models.User
}

func (s *stubUsers) Insert(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = int64(len(s.rows) + 1)
	s.rows[u.ID] = u
	return u, nil
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Lists = models.Lists{
		WatchList: slices.Clone(u.Lists.WatchList),
		Watching:  slices.Clone(u.Lists.Watching),
		Completed: slices.Clone(u.Lists.Completed),
		Favorites: slices.Clone(u.Lists.Favorites),
	}
	cp.Social = models.Social{
		Friends:         slices.Clone(u.Social.Friends),
		SentRequests:    slices.Clone(u.Social.SentRequests),
		PendingRequests: slices.Clone(u.Social.PendingRequests),
		Followers:       slices.Clone(u.Social.Followers),
		Following:       slices.Clone(u.Social.Following),
	}
	return &cp
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.rows[id]; ok {
		return cloneUser(u), nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *stubUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (s *stubUsers) UpdateAccount(context.Context, *models.User) error {
	return nil
}

func (s *stubUsers) UpdateLists(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[u.ID] = cloneUser(u)
	return nil
}

func (s *stubUsers) UpdateSocial(_ context.Context, users ...*models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.rows[u.ID] = cloneUser(u)
	}
	return nil
}

func (s *stubUsers) Summaries(_ context.Context, ids []int64) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.rows[id]; ok {
			out = append(out, models.UserSummary{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

// stubContents knows every imdb id it is asked about.
type stubContents struct{}

func (stubContents) Get(_ context.Context, imdbID string) (*models.ContentItem, error) {
	return &models.ContentItem{ImdbID: imdbID, Title: "Title " + imdbID}, nil
}

func (stubContents) Summaries(_ context.Context, ids []string) ([]models.ContentSummary, error) {
	out := make([]models.ContentSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ContentSummary{ImdbID: id, Title: "Title " + id})
	}
	return out, nil
}

type stubSessions struct {
	sids map[string]int64
}

func (s *stubSessions) Create(context.Context, int64) (string, error) {
	return "", nil
}

func (s *stubSessions) Get(_ context.Context, sid string) (int64, error) {
	if id, ok := s.sids[sid]; ok {
		return id, nil
	}
	return 0, storage.ErrNotFound
}

func (s *stubSessions) Delete(_ context.Context, sid string) error {
	delete(s.sids, sid)
	return nil
}

func (s *stubSessions) DeleteAll(context.Context, int64) error {
	return nil
}

type noopTasks struct{}

func (noopTasks) Add(func()) bool { return true }

type noopMailer struct{}

func (noopMailer) Send(string, string, any) error { return nil }

// NewTestApplication builds an application whose auth service knows the
// given users, each reachable through the session id "sid-<id>".
func NewTestApplication(t *testing.T, users ...*models.User) *Application {
	t.Helper()
	cfg := &config.Config{BaseURL: "http://localhost:3000"}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	log := logger.Discard()
	store := &stubUsers{rows: make(map[int64]*models.User)}
	sessions := &stubSessions{sids: make(map[string]int64)}
	for _, u := range users {
		store.rows[u.ID] = u
		sessions.sids[sidFor(u)] = u.ID
	}
	authService := auth.New(log, store, sessions, noopMailer{}, noopTasks{}, nil, auth.Options{
		BaseURL: cfg.BaseURL,
		Secret:  "test-secret",
	})
	return NewApplication(cfg, log, &services.Services{
		Auth:   authService,
		Lists:  lists.New(log, store, stubContents{}),
		Social: social.New(log, store),
	})
}

func sidFor(u *models.User) string {
	return "sid-" + strconv.FormatInt(u.ID, 10)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// asUser attaches the session cookie of u to r.
func asUser(r *http.Request, u *models.User) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: sidFor(u)})
	return r
}

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
