package auth

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrUsernameTaken      = apperr.New(apperr.Conflict, "Username already taken")
	ErrEmailTaken         = apperr.New(apperr.Conflict, "Email already registered")
	ErrInvalidEmail       = apperr.New(apperr.NotFound, "Invalid email")
	ErrInvalidCode        = apperr.New(apperr.InvalidInput, "Invalid code")
	ErrAlreadyVerified    = apperr.New(apperr.Conflict, "Your account is already verified")
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid login credentials")
	ErrNotVerified        = apperr.New(apperr.Unauthorized, "Please confirm your account")
	ErrAccountDisabled    = apperr.New(apperr.Unauthorized, "Your account is disabled")
	ErrInvalidSession     = apperr.New(apperr.Unauthorized, "You must be authenticated to access this resource")
	ErrInvalidToken       = apperr.New(apperr.Unauthorized, "Invalid or expired token")
	ErrWrongPassword      = apperr.New(apperr.Unauthorized, "Current password is incorrect")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "User not found")
	ErrOAuthDisabled      = apperr.New(apperr.NotFound, "Google login is not configured")
	ErrOAuthFailed        = apperr.New(apperr.Unauthorized, "Google authentication failed")
)

// MsgAccountVerified is returned by Confirm on success and when the account
// was verified before.
const MsgAccountVerified = "Your account has been verified. Please log in."
