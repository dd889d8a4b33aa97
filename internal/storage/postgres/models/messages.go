package models

import (
	"context"
	"time"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, sender_id, receiver_id, body, is_read, created_at`

type messageRow struct {
	ID         int64     `db:"id"`
	SenderID   int64     `db:"sender_id"`
	ReceiverID int64     `db:"receiver_id"`
	Body       string    `db:"body"`
	IsRead     bool      `db:"is_read"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *messageRow) toDomain() models.Message {
	return models.Message{
		ID:        r.ID,
		Sender:    r.SenderID,
		Receiver:  r.ReceiverID,
		Body:      r.Body,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}

type MessageModel struct {
	DB *pgxpool.Pool
}

func (m *MessageModel) Insert(ctx context.Context, sender, receiver int64, body string) (*models.Message, error) {
	rows, err := m.DB.Query(
		ctx,
		`INSERT INTO messages (sender_id, receiver_id, body) VALUES ($1, $2, $3) RETURNING `+messageColumns,
		sender,
		receiver,
		body,
	)
	row, err := collectOne[messageRow](rows, err)
	if err != nil {
		return nil, err
	}
	msg := row.toDomain()
	return &msg, nil
}

// Conversation returns messages exchanged between a and b, newest first.
func (m *MessageModel) Conversation(ctx context.Context, a, b int64, limit, offset int) ([]models.Message, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+messageColumns+` FROM messages
		WHERE least(sender_id, receiver_id) = least($1::bigint, $2::bigint)
			AND greatest(sender_id, receiver_id) = greatest($1::bigint, $2::bigint)
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		a,
		b,
		limit,
		offset,
	)
	items, err := collectAll[messageRow](rows, err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(items))
	for i := range items {
		out = append(out, items[i].toDomain())
	}
	return out, nil
}

// MarkRead flags every message from sender to receiver as read.
func (m *MessageModel) MarkRead(ctx context.Context, receiver, sender int64) error {
	_, err := m.DB.Exec(
		ctx,
		"UPDATE messages SET is_read = true WHERE receiver_id = $1 AND sender_id = $2 AND NOT is_read",
		receiver,
		sender,
	)
	return postgres.MapError(err)
}
