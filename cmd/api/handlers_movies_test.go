package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinetrack/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToList(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", IsVerified: true}
	router := NewTestApplication(t, user).routes()
	add := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/add-watching", strings.NewReader(`{"imdbId":"tt0111161"}`))
		router.ServeHTTP(rec, asUser(req, user))
		return rec
	}

	rec := add()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Added to watching", decodeResponse(t, rec).Message)

	rec = add()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Movie is already in this list", decodeResponse(t, rec).Error)
}

func TestRemoveFromList(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", IsVerified: true}
	router := NewTestApplication(t, user).routes()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/remove-favorite", strings.NewReader(`{"imdbId":"tt0111161"}`))
	router.ServeHTTP(rec, asUser(req, user))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie is not in this list", decodeResponse(t, rec).Error)
}

func TestGetList(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", IsVerified: true}
	require.NoError(t, user.Lists.Add(models.Watching, "tt0111161", fixedTime))
	router := NewTestApplication(t, user).routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/movies/watching", nil), user))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Movies     []models.ContentSummary `json:"movies"`
			NextResult *int                    `json:"nextResult"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Movies, 1)
	assert.Equal(t, "tt0111161", body.Data.Movies[0].ImdbID)
	assert.Nil(t, body.Data.NextResult)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/movies/favorites", nil), user))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "List is empty", decodeResponse(t, rec).Error)
}

func TestFriendRequestRoutes(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", IsVerified: true}
	bob := &models.User{ID: 2, Username: "bob", IsVerified: true}
	router := NewTestApplication(t, alice, bob).routes()
	call := func(u *models.User, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, path, nil), u))
		return rec
	}

	rec := call(alice, "/api/v1/profile/add-friend?friendName=bob")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(alice, "/api/v1/profile/add-friend?friendName=bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Friend request already sent", decodeResponse(t, rec).Error)

	rec = call(alice, "/api/v1/profile/accept-friend?friendName=bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no request from bob to accept")

	rec = call(bob, "/api/v1/profile/accept-friend?friendName=alice")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(alice, "/api/v1/profile/add-friend?friendName=bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are already friends", decodeResponse(t, rec).Error)

	rec = call(alice, "/api/v1/profile/add-friend")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
