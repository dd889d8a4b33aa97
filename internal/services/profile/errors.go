package profile

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrUserNotFound   = apperr.New(apperr.NotFound, "User not found")
	ErrPrivateProfile = apperr.New(apperr.Unauthorized, "This profile is private")
)
