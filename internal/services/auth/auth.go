package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/mails"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAccount(ctx context.Context, user *models.User) error
}

type SessionStorage interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, sid string) (int64, error)
	Delete(ctx context.Context, sid string) error
	DeleteAll(ctx context.Context, userID int64) error
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func()) bool
}

// OAuthUser is the identity returned by an external provider.
type OAuthUser struct {
	Email     string
	GivenName string
	Picture   string
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthUser, error)
}

type Options struct {
	// BaseURL is the public address links in emails point to.
	BaseURL string
	// Secret signs password reset tokens.
	Secret     string
	BcryptCost int
}

type AuthService struct {
	log          *slog.Logger
	users        UserStorage
	sessions     SessionStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	google       OAuthProvider
	opts         Options
	now          func() time.Time
}

// New builds the service. google may be nil when OAuth is not configured.
func New(
	log *slog.Logger,
	users UserStorage,
	sessions SessionStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	google OAuthProvider,
	opts Options,
) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		log:          log,
		users:        users,
		sessions:     sessions,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		google:       google,
		opts:         opts,
		now:          time.Now,
	}
}

func newCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func avatarURL(username string) string {
	return "https://robohash.org/" + url.PathEscape(username)
}

// sendEmail queues the email on the background pool. Delivery failures are
// only logged.
func (a *AuthService) sendEmail(log *slog.Logger, recipient, tmpl string, data map[string]any) {
	added := a.taskExecutor.Add(func() {
		log.Info("sending email", "template", tmpl)
		if err := a.mailer.Send(recipient, tmpl, data); err != nil {
			log.Error("Error sending email", "template", tmpl, "errMsg", err.Error())
		}
	})
	if !added {
		log.Warn("email dropped, task pool is closed", "template", tmpl)
	}
}

func (a *AuthService) sendConfirmationEmail(log *slog.Logger, user *models.User) {
	confirmURL := a.opts.BaseURL + "/confirm?" + url.Values{
		"email": {user.Email},
		"code":  {user.VerificationCode},
	}.Encode()
	a.sendEmail(log, user.Email, mails.ConfirmAccountTmpl, map[string]any{
		"username":   user.Username,
		"code":       user.VerificationCode,
		"confirmURL": confirmURL,
	})
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup creates an unverified account, mails its confirmation code and
// opens a session for it.
func (a *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, string, error) {
	const op = "auth.AuthService.Signup"
	// credentials are matched case-insensitively at login
	email, username := strings.ToLower(input.Email), strings.ToLower(input.Username)
	log := a.log.With("op", op, "email", email, "username", username)
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), a.opts.BcryptCost)
	if err != nil {
		return nil, "", apperr.Logged(log, err)
	}
	code, err := newCode()
	if err != nil {
		return nil, "", apperr.Logged(log, err)
	}
	user, err := a.users.Insert(ctx, &models.User{
		Username:         username,
		Email:            email,
		PasswordHash:     hash,
		VerificationCode: code,
		Image:            avatarURL(username),
	})
	if err != nil {
		var conflict *storage.ConflictError
		if errors.As(err, &conflict) {
			if conflict.Constraint == "users_email_key" {
				return nil, "", apperr.Logged(log, ErrEmailTaken)
			}
			return nil, "", apperr.Logged(log, ErrUsernameTaken)
		}
		return nil, "", apperr.Logged(log, err)
	}
	log.Info("user created", "user_id", user.ID)
	a.sendConfirmationEmail(log, user)
	sid, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", apperr.Logged(log, err)
	}
	return user, sid, nil
}

func (a *AuthService) byEmail(ctx context.Context, email string, missing error) (*models.User, error) {
	user, err := a.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, missing
		}
		return nil, err
	}
	return user, nil
}

// updateAccount re-reads the user on every attempt and applies fn before
// saving it with a version check.
func (a *AuthService) updateAccount(ctx context.Context, load func() (*models.User, error), fn func(u *models.User) error) (*models.User, error) {
	var result *models.User
	err := cas.Do(ctx, func() error {
		user, err := load()
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		if err := a.users.UpdateAccount(ctx, user); err != nil {
			return err
		}
		result = user
		return nil
	})
	return result, err
}

// Confirm verifies the account of email with code. It returns the message
// to show to the user.
func (a *AuthService) Confirm(ctx context.Context, email, code string) (string, error) {
	const op = "auth.AuthService.Confirm"
	log := a.log.With("op", op, "email", email)
	_, err := a.updateAccount(ctx,
		func() (*models.User, error) { return a.byEmail(ctx, email, ErrInvalidEmail) },
		func(u *models.User) error {
			if u.IsVerified {
				return ErrAlreadyVerified
			}
			if u.VerificationCode == "" || u.VerificationCode != code {
				return ErrInvalidCode
			}
			u.IsVerified = true
			u.VerificationCode = ""
			return nil
		},
	)
	if errors.Is(err, ErrAlreadyVerified) {
		return MsgAccountVerified, nil
	}
	if err != nil {
		return "", apperr.Logged(log, err)
	}
	log.Info("account verified")
	return MsgAccountVerified, nil
}

// NewConfirmationCode rotates the confirmation code of an unverified account
// and mails it again.
func (a *AuthService) NewConfirmationCode(ctx context.Context, email string) error {
	const op = "auth.AuthService.NewConfirmationCode"
	log := a.log.With("op", op, "email", email)
	code, err := newCode()
	if err != nil {
		return apperr.Logged(log, err)
	}
	user, err := a.updateAccount(ctx,
		func() (*models.User, error) { return a.byEmail(ctx, email, ErrInvalidEmail) },
		func(u *models.User) error {
			if u.IsVerified {
				return ErrAlreadyVerified
			}
			u.VerificationCode = code
			return nil
		},
	)
	if err != nil {
		return apperr.Logged(log, err)
	}
	a.sendConfirmationEmail(log, user)
	return nil
}

// Login checks the credentials and opens a session. credential is an email
// when it contains "@" and a username otherwise.
func (a *AuthService) Login(ctx context.Context, credential, password string) (*models.User, string, error) {
	const op = "auth.AuthService.Login"
	credential = strings.ToLower(credential)
	log := a.log.With("op", op, "credential", credential)
	var (
		user *models.User
		err  error
	)
	if strings.Contains(credential, "@") {
		user, err = a.users.GetByEmail(ctx, credential)
	} else {
		user, err = a.users.GetByUsername(ctx, credential)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", apperr.Logged(log, ErrInvalidCredentials)
		}
		return nil, "", apperr.Logged(log, err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", apperr.Logged(log, ErrInvalidCredentials)
	}
	if !user.IsVerified {
		return nil, "", apperr.Logged(log, ErrNotVerified)
	}
	if user.IsDisabled {
		return nil, "", apperr.Logged(log, ErrAccountDisabled)
	}
	sid, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", apperr.Logged(log, err)
	}
	log.Info("user logged in", "user_id", user.ID)
	return user, sid, nil
}

func (a *AuthService) Logout(ctx context.Context, sid string) error {
	const op = "auth.AuthService.Logout"
	log := a.log.With("op", op)
	if err := a.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return apperr.Logged(log, err)
	}
	return nil
}

// Authenticate resolves a session id to its user. Disabled accounts are
// rejected even if a session survived.
func (a *AuthService) Authenticate(ctx context.Context, sid string) (*models.User, error) {
	userID, err := a.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if user.IsDisabled {
		return nil, ErrAccountDisabled
	}
	return user, nil
}
