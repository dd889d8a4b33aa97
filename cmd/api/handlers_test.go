package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinetrack/proj/internal/domain/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck(t *testing.T) {
	app := NewTestApplication(t)
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			SystemInfo struct {
				Environment string `json:"environment"`
				Version     string `json:"version"`
				GoogleLogin bool   `json:"googleLogin"`
			} `json:"systemInfo"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, statusSuccess, body.Status)
	assert.Equal(t, "available", body.Message)
	assert.Equal(t, "production", body.Data.SystemInfo.Environment)
	assert.Equal(t, version, body.Data.SystemInfo.Version)
	assert.False(t, body.Data.SystemInfo.GoogleLogin)
}

func TestServiceError(t *testing.T) {
	app := NewTestApplication(t)
	testCases := []struct {
		err      error
		expected int
		msg      string
	}{
		{apperr.New(apperr.NotFound, "Club not found"), http.StatusNotFound, "Club not found"},
		{apperr.New(apperr.InvalidInput, "Bad"), http.StatusBadRequest, "Bad"},
		{apperr.New(apperr.Conflict, "Taken"), http.StatusConflict, "Taken"},
		{apperr.New(apperr.Unauthorized, "Nope"), http.StatusUnauthorized, "Nope"},
		{errors.New("db is down"), http.StatusInternalServerError, "Sorry! Can't process your request. Please try again later."},
	}
	for _, tc := range testCases {
		rec := httptest.NewRecorder()
		app.Http.ServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.expected, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, statusError, resp.Status)
		assert.Equal(t, tc.msg, resp.Error)
	}
}

func TestRoutes(t *testing.T) {
	app := NewTestApplication(t)
	router := app.routes()
	testCases := []struct {
		name     string
		method   string
		path     string
		body     string
		expected int
	}{
		{"unknown path", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/api/v1/healthcheck", "", http.StatusMethodNotAllowed},
		{"lists need a session", http.MethodGet, "/api/v1/movies/favorites", "", http.StatusUnauthorized},
		{"comments need a session", http.MethodPost, "/api/v1/comments", `{}`, http.StatusUnauthorized},
		{"creating content needs a session", http.MethodPost, "/api/v1/movies", `{}`, http.StatusUnauthorized},
		{"messages need a session", http.MethodGet, "/api/v1/messages/bob", "", http.StatusUnauthorized},
		{"signup is validated", http.MethodPost, "/api/v1/auth/signup", `{"username":"a","email":"x","password":"short"}`, http.StatusUnprocessableEntity},
		{"comment target is validated", http.MethodGet, "/api/v1/comments?type=poll&id=1", "", http.StatusBadRequest},
		{"confirm requires a code", http.MethodGet, "/api/v1/auth/confirm?email=a@b.com", "", http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestGoogleLoginDisabled(t *testing.T) {
	app := NewTestApplication(t)
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGoogleCallbackRejectsForeignState(t *testing.T) {
	app := NewTestApplication(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=abc&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "other"})
	app.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OAuth state", decodeResponse(t, rec).Error)
}
