package blogs

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrBlogNotFound = apperr.New(apperr.NotFound, "Blog not found")
	ErrUserNotFound = apperr.New(apperr.NotFound, "User not found")
	ErrNoBlogs      = apperr.New(apperr.NotFound, "No blogs yet")
	ErrNotAuthor    = apperr.New(apperr.Unauthorized, "You can only modify your own blogs")
)
