package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/lib/logger"
	"cinetrack/proj/internal/mails"
	"cinetrack/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: make(map[int64]models.User)}
}

func (m *memUsers) Insert(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Username == u.Username {
			return nil, &storage.ConflictError{Constraint: "users_username_key"}
		}
		if row.Email == u.Email {
			return nil, &storage.ConflictError{Constraint: "users_email_key"}
		}
	}
	m.nextID++
	stored := *u
	stored.ID, stored.Version, stored.Role = m.nextID, 1, models.RoleUser
	m.rows[stored.ID] = stored
	return &stored, nil
}

func (m *memUsers) find(match func(u models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *memUsers) UpdateAccount(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[u.ID]
	if !ok || cur.Version != u.Version {
		return storage.ErrEditConflict
	}
	u.Version++
	m.rows[u.ID] = *u
	return nil
}

type memSessions struct {
	mu   sync.Mutex
	next int
	sids map[string]int64
}

func (s *memSessions) Create(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sids == nil {
		s.sids = make(map[string]int64)
	}
	s.next++
	sid := "sid-" + strings.Repeat("x", s.next)
	s.sids[sid] = userID
	return sid, nil
}

func (s *memSessions) Get(_ context.Context, sid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.sids[sid]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return uid, nil
}

func (s *memSessions) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sids, sid)
	return nil
}

func (s *memSessions) DeleteAll(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, uid := range s.sids {
		if uid == userID {
			delete(s.sids, sid)
		}
	}
	return nil
}

type sentMail struct {
	recipient string
	tmpl      string
	data      map[string]any
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(recipient, tmpl string, data any) error {
	m.sent = append(m.sent, sentMail{recipient, tmpl, data.(map[string]any)})
	return nil
}

func (m *recordingMailer) last() sentMail {
	return m.sent[len(m.sent)-1]
}

// inlineTasks runs tasks synchronously.
type inlineTasks struct{}

func (inlineTasks) Add(task func()) bool {
	task()
	return true
}

type fakeGoogle struct {
	user *OAuthUser
	err  error
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) Exchange(context.Context, string) (*OAuthUser, error) {
	return g.user, g.err
}

type fixture struct {
	svc      *AuthService
	users    *memUsers
	sessions *memSessions
	mailer   *recordingMailer
}

func newFixture(google OAuthProvider) *fixture {
	f := &fixture{users: newMemUsers(), sessions: &memSessions{}, mailer: &recordingMailer{}}
	f.svc = New(logger.Discard(), f.users, f.sessions, f.mailer, inlineTasks{}, google, Options{
		BaseURL:    "http://localhost:8000",
		Secret:     "test-secret",
		BcryptCost: bcrypt.MinCost,
	})
	return f
}

const strongPassword = "Pa$$w0rd!"

func (f *fixture) signupVerified(t *testing.T, username, email string) *models.User {
	t.Helper()
	user, _, err := f.svc.Signup(context.Background(), SignupInput{Username: username, Email: email, Password: strongPassword})
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), email, user.VerificationCode)
	require.NoError(t, err)
	return user
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	user, sid, err := f.svc.Signup(ctx, SignupInput{Username: "Alice", Email: "Alice@Example.com", Password: strongPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.VerificationCode, 6)
	assert.Equal(t, "https://robohash.org/alice", user.Image)
	assert.NotEqual(t, []byte(strongPassword), user.PasswordHash)

	mail := f.mailer.last()
	assert.Equal(t, mails.ConfirmAccountTmpl, mail.tmpl)
	assert.Equal(t, user.VerificationCode, mail.data["code"])
	assert.Contains(t, mail.data["confirmURL"], "code="+user.VerificationCode)

	_, _, err = f.svc.Signup(ctx, SignupInput{Username: "alice", Email: "other@example.com", Password: strongPassword})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, _, err = f.svc.Signup(ctx, SignupInput{Username: "bob", Email: "alice@example.com", Password: strongPassword})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	user, _, err := f.svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: strongPassword})
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, "nobody@example.com", user.VerificationCode)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.svc.Confirm(ctx, "alice@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	stored, _ := f.users.GetByID(ctx, user.ID)
	assert.False(t, stored.IsVerified)

	msg, err := f.svc.Confirm(ctx, "alice@example.com", user.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, MsgAccountVerified, msg)
	stored, _ = f.users.GetByID(ctx, user.ID)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationCode)

	msg, err = f.svc.Confirm(ctx, "alice@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, MsgAccountVerified, msg)
}

func TestNewConfirmationCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	user, _, err := f.svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: strongPassword})
	require.NoError(t, err)

	require.NoError(t, f.svc.NewConfirmationCode(ctx, "alice@example.com"))
	stored, _ := f.users.GetByID(ctx, user.ID)
	assert.Equal(t, stored.VerificationCode, f.mailer.last().data["code"])

	_, err = f.svc.Confirm(ctx, "alice@example.com", stored.VerificationCode)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.NewConfirmationCode(ctx, "alice@example.com"), ErrAlreadyVerified)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	_, _, err := f.svc.Signup(ctx, SignupInput{Username: "carol", Email: "carol@example.com", Password: strongPassword})
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "carol", strongPassword)
	assert.ErrorIs(t, err, ErrNotVerified)

	f.signupVerified(t, "alice", "alice@example.com")

	testCases := []struct {
		name       string
		credential string
		password   string
		wantErr    error
	}{
		{"by username", "alice", strongPassword, nil},
		{"by email any case", "ALICE@example.com", strongPassword, nil},
		{"wrong password", "alice", "nope", ErrInvalidCredentials},
		{"unknown user", "zed", strongPassword, ErrInvalidCredentials},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, sid, err := f.svc.Login(ctx, tc.credential, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
			authed, err := f.svc.Authenticate(ctx, sid)
			require.NoError(t, err)
			assert.Equal(t, user.ID, authed.ID)
		})
	}
}

func TestLogoutAndDisable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	user := f.signupVerified(t, "alice", "alice@example.com")
	_, sid1, err := f.svc.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)
	_, sid2, err := f.svc.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, sid1))
	_, err = f.svc.Authenticate(ctx, sid1)
	assert.ErrorIs(t, err, ErrInvalidSession)

	require.NoError(t, f.svc.DisableAccount(ctx, user.ID))
	_, err = f.svc.Authenticate(ctx, sid2)
	assert.ErrorIs(t, err, ErrInvalidSession)

	stored, _ := f.users.GetByID(ctx, user.ID)
	assert.True(t, stored.IsDisabled)
	require.NotNil(t, stored.DisabledAt)

	_, _, err = f.svc.Login(ctx, "alice", strongPassword)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	user := f.signupVerified(t, "alice", "alice@example.com")
	_, sid, err := f.svc.Login(ctx, "alice", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "alice@example.com"))
	mail := f.mailer.last()
	assert.Equal(t, mails.PasswordResetTmpl, mail.tmpl)
	resetURL, err := url.Parse(mail.data["resetURL"].(string))
	require.NoError(t, err)
	token := resetURL.Query().Get("token")
	require.NotEmpty(t, token)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token+"x", "N3w$ecret"), ErrInvalidToken)
	require.NoError(t, f.svc.ResetPassword(ctx, token, "N3w$ecret"))
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token, "0ther$ecret"), ErrInvalidToken, "code is single use")

	_, err = f.svc.Authenticate(ctx, sid)
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, _, err = f.svc.Login(ctx, "alice", "N3w$ecret")
	require.NoError(t, err)

	stored, _ := f.users.GetByID(ctx, user.ID)
	assert.Empty(t, stored.VerificationCode)
}

func TestExpiredResetToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	f.signupVerified(t, "alice", "alice@example.com")
	require.NoError(t, f.svc.RequestPasswordReset(ctx, "alice@example.com"))
	resetURL, err := url.Parse(f.mailer.last().data["resetURL"].(string))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, resetURL.Query().Get("token"), "N3w$ecret"), ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	user := f.signupVerified(t, "alice", "alice@example.com")

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, user.ID, "wrong", "N3w$ecret"), ErrWrongPassword)
	require.NoError(t, f.svc.ChangePassword(ctx, user.ID, strongPassword, "N3w$ecret"))
	_, _, err := f.svc.Login(ctx, "alice", "N3w$ecret")
	require.NoError(t, err)
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()

	_, _, err := newFixture(nil).svc.GoogleLogin(ctx, "code")
	assert.ErrorIs(t, err, ErrOAuthDisabled)

	google := &fakeGoogle{user: &OAuthUser{Email: "Alice@Gmail.com", GivenName: "Alice", Picture: "https://img"}}
	f := newFixture(google)
	f.signupVerified(t, "alice", "taken@example.com")

	user, sid, err := f.svc.GoogleLogin(ctx, "code")
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "alice@gmail.com", user.Email)
	assert.NotEqual(t, "alice", user.Username, "username must be unique")
	assert.True(t, strings.HasPrefix(user.Username, "alice"))
	assert.LessOrEqual(t, len(user.Username), maxUsernameLen)

	again, _, err := f.svc.GoogleLogin(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	google.err = errors.New("bad code")
	_, _, err = f.svc.GoogleLogin(ctx, "code")
	assert.ErrorIs(t, err, ErrOAuthFailed)
}

func TestUsernameFrom(t *testing.T) {
	assert.Equal(t, "jos", usernameFrom("José", "x@y.z"))
	assert.Equal(t, "johndoe", usernameFrom("", "john.doe@example.com"))
	assert.Equal(t, "ab0", usernameFrom("", "ab@example.com"))
	assert.Len(t, usernameFrom(strings.Repeat("a", 40), ""), maxUsernameLen)
}
