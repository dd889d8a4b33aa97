package auth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/mails"
	"cinetrack/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type resetClaims struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	jwt.RegisteredClaims
}

func (a *AuthService) signResetToken(email, code string) (string, error) {
	now := a.now()
	claims := resetClaims{
		Email: email,
		Code:  code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.opts.Secret))
}

func (a *AuthService) parseResetToken(token string) (*resetClaims, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(a.opts.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequestPasswordReset stores a one time code on the account and mails a
// signed link carrying it.
func (a *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.AuthService.RequestPasswordReset"
	log := a.log.With("op", op, "email", email)
	code, err := newCode()
	if err != nil {
		return apperr.Logged(log, err)
	}
	user, err := a.updateAccount(ctx,
		func() (*models.User, error) { return a.byEmail(ctx, email, ErrUserNotFound) },
		func(u *models.User) error {
			if !u.IsVerified {
				return ErrNotVerified
			}
			u.VerificationCode = code
			return nil
		},
	)
	if err != nil {
		return apperr.Logged(log, err)
	}
	token, err := a.signResetToken(user.Email, code)
	if err != nil {
		return apperr.Logged(log, err)
	}
	resetURL := a.opts.BaseURL + "/change-password?" + url.Values{"token": {token}}.Encode()
	a.sendEmail(log, user.Email, mails.PasswordResetTmpl, map[string]any{
		"username": user.Username,
		"resetURL": resetURL,
	})
	log.Info("password reset requested")
	return nil
}

// ResetPassword sets a new password for the account the token was issued
// for and signs it out everywhere.
func (a *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "auth.AuthService.ResetPassword"
	log := a.log.With("op", op)
	claims, err := a.parseResetToken(token)
	if err != nil {
		log.Info("rejected reset token", "errMsg", err.Error())
		return ErrInvalidToken
	}
	log = log.With("email", claims.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.opts.BcryptCost)
	if err != nil {
		return apperr.Logged(log, err)
	}
	user, err := a.updateAccount(ctx,
		func() (*models.User, error) { return a.byEmail(ctx, claims.Email, ErrInvalidToken) },
		func(u *models.User) error {
			if u.VerificationCode == "" || u.VerificationCode != claims.Code {
				return ErrInvalidToken
			}
			u.PasswordHash = hash
			u.VerificationCode = ""
			return nil
		},
	)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if err := a.sessions.DeleteAll(ctx, user.ID); err != nil {
		return apperr.Logged(log, err)
	}
	log.Info("password reset")
	return nil
}

func (a *AuthService) byID(ctx context.Context, userID int64) func() (*models.User, error) {
	return func() (*models.User, error) {
		user, err := a.users.GetByID(ctx, userID)
		if err != nil {
			return nil, notFound(err)
		}
		return user, nil
	}
}

func (a *AuthService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	const op = "auth.AuthService.ChangePassword"
	log := a.log.With("op", op, "user_id", userID)
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.opts.BcryptCost)
	if err != nil {
		return apperr.Logged(log, err)
	}
	_, err = a.updateAccount(ctx, a.byID(ctx, userID), func(u *models.User) error {
		if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(current)) != nil {
			return ErrWrongPassword
		}
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		return apperr.Logged(log, err)
	}
	log.Info("password changed")
	return nil
}

// DisableAccount flags the account as disabled and drops all its sessions.
// The purge job deletes it once the grace period is over.
func (a *AuthService) DisableAccount(ctx context.Context, userID int64) error {
	const op = "auth.AuthService.DisableAccount"
	log := a.log.With("op", op, "user_id", userID)
	_, err := a.updateAccount(ctx, a.byID(ctx, userID), func(u *models.User) error {
		if u.IsDisabled {
			return ErrAccountDisabled
		}
		now := a.now().UTC()
		u.IsDisabled = true
		u.DisabledAt = &now
		return nil
	})
	if err != nil {
		return apperr.Logged(log, err)
	}
	if err := a.sessions.DeleteAll(ctx, userID); err != nil {
		return apperr.Logged(log, err)
	}
	log.Info("account disabled")
	return nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
