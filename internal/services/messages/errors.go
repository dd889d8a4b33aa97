package messages

import "cinetrack/proj/internal/domain/apperr"

var (
	ErrUserNotFound   = apperr.New(apperr.NotFound, "User not found")
	ErrMessageToSelf  = apperr.New(apperr.InvalidInput, "You can't message yourself")
	ErrMessageTooLong = apperr.New(apperr.InvalidInput, "Message must be at most 255 characters")
	ErrEmptyMessage   = apperr.New(apperr.InvalidInput, "Message must not be empty")
	ErrNoConversation = apperr.New(apperr.NotFound, "No messages yet")
)
