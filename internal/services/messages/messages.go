package messages

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/storage"
)

const MaxMessageLength = 255

type MessageStorage interface {
	Insert(ctx context.Context, sender, receiver int64, body string) (*models.Message, error)
	Conversation(ctx context.Context, a, b int64, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, receiver, sender int64) error
}

type UserStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type MessageService struct {
	log      *slog.Logger
	messages MessageStorage
	users    UserStorage
}

func New(log *slog.Logger, messages MessageStorage, users UserStorage) *MessageService {
	return &MessageService{log: log, messages: messages, users: users}
}

func (s *MessageService) peer(ctx context.Context, userID int64, name string) (*models.User, error) {
	other, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if other.ID == userID {
		return nil, ErrMessageToSelf
	}
	return other, nil
}

func (s *MessageService) Send(ctx context.Context, senderID int64, receiverName, body string) (*models.Message, error) {
	const op = "messages.MessageService.Send"
	log := s.log.With("op", op, "sender_id", senderID, "receiver", receiverName)
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}
	receiver, err := s.peer(ctx, senderID, receiverName)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	msg, err := s.messages.Insert(ctx, senderID, receiver.ID, body)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("message sent", "message_id", msg.ID)
	return msg, nil
}

// Conversation returns the messages between the user and otherName, newest
// first, and marks the ones the user received as read.
func (s *MessageService) Conversation(ctx context.Context, userID int64, otherName string, cursor int) (*pagination.Page[models.Message], error) {
	const op = "messages.MessageService.Conversation"
	log := s.log.With("op", op, "user_id", userID, "other", otherName, "cursor", cursor)
	other, err := s.peer(ctx, userID, otherName)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	rows, err := s.messages.Conversation(ctx, userID, other.ID, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoConversation
	}
	if err := s.messages.MarkRead(ctx, userID, other.ID); err != nil {
		return nil, apperr.Logged(log, err)
	}
	if rows == nil {
		rows = []models.Message{}
	}
	page := pagination.Trim(rows, cursor, pagination.PageSize)
	return &page, nil
}
