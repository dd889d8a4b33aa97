package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 20
	// usernameAttempts bounds the search for a free username.
	usernameAttempts = 5
)

func (a *AuthService) GoogleEnabled() bool {
	return a.google != nil
}

// GoogleLoginURL returns the consent page address for state.
func (a *AuthService) GoogleLoginURL(state string) (string, error) {
	if a.google == nil {
		return "", ErrOAuthDisabled
	}
	return a.google.AuthCodeURL(state), nil
}

// GoogleLogin exchanges an authorization code, finds or creates the matching
// account and opens a session for it.
func (a *AuthService) GoogleLogin(ctx context.Context, code string) (*models.User, string, error) {
	const op = "auth.AuthService.GoogleLogin"
	log := a.log.With("op", op)
	if a.google == nil {
		return nil, "", apperr.Logged(log, ErrOAuthDisabled)
	}
	info, err := a.google.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth exchange failed", "errMsg", err.Error())
		return nil, "", ErrOAuthFailed
	}
	email := strings.ToLower(info.Email)
	log = log.With("email", email)

	user, err := a.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user, err = a.createOAuthUser(ctx, email, info)
		if err != nil {
			return nil, "", apperr.Logged(log, err)
		}
		log.Info("user created from google account", "user_id", user.ID)
	case err != nil:
		return nil, "", apperr.Logged(log, err)
	case user.IsDisabled:
		return nil, "", apperr.Logged(log, ErrAccountDisabled)
	case !user.IsVerified:
		// google already proved ownership of the address
		user, err = a.updateAccount(ctx, a.byID(ctx, user.ID), func(u *models.User) error {
			u.IsVerified = true
			u.VerificationCode = ""
			return nil
		})
		if err != nil {
			return nil, "", apperr.Logged(log, err)
		}
	}

	sid, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", apperr.Logged(log, err)
	}
	return user, sid, nil
}

func (a *AuthService) createOAuthUser(ctx context.Context, email string, info *OAuthUser) (*models.User, error) {
	password := make([]byte, 24)
	if _, err := rand.Read(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(password)), a.opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	base := usernameFrom(info.GivenName, email)
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			suffix, err := newCode()
			if err != nil {
				return nil, err
			}
			username = base[:min(len(base), maxUsernameLen-len(suffix))] + suffix
		}
		image := info.Picture
		if image == "" {
			image = avatarURL(username)
		}
		user, err := a.users.Insert(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			IsVerified:   true,
			Image:        image,
		})
		var conflict *storage.ConflictError
		if errors.As(err, &conflict) && conflict.Constraint == "users_username_key" {
			continue
		}
		return user, err
	}
	return nil, fmt.Errorf("no free username for %q after %d attempts", base, usernameAttempts)
}

// usernameFrom derives an alphanumeric username from the given name, falling
// back to the local part of the email.
func usernameFrom(givenName, email string) string {
	clean := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	name := clean(givenName)
	if len(name) < minUsernameLen {
		local, _, _ := strings.Cut(email, "@")
		name = clean(local)
	}
	for len(name) < minUsernameLen {
		name += "0"
	}
	return name[:min(len(name), maxUsernameLen)]
}
