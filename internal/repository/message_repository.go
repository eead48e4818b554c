package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/court-booking/internal/model"
)

// MessageRepo stores direct messages between users.
type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts m and fills its ID and CreatedAt.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, content) VALUES (?,?,?)",
		m.SenderID, m.ReceiverID, m.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM messages WHERE id = ?", m.ID).Scan(&m.CreatedAt)
}

// Conversation returns messages exchanged between a and b in either
// direction, oldest first.
func (r *MessageRepo) Conversation(ctx context.Context, a, b uint64) ([]model.Message, error) {
	const q = `SELECT id, sender_id, receiver_id, content, created_at FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
