package repository

import (
	"context"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

type CreateGroupMessageInput struct {
	RoomID     string
	SenderID   int64
	SenderName string
	SenderRole string
	Text       string
}

func (r *MessageRepository) Create(
	ctx context.Context,
	input CreateGroupMessageInput,
) (*models.GroupMessage, error) {
	query := `
		INSERT INTO group_messages (room_id, sender_id, sender_name, sender_role, text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, room_id, sender_id, sender_name, sender_role, text, created_at
	`
	var message models.GroupMessage
	err := r.db.QueryRow(
		ctx,
		query,
		input.RoomID,
		input.SenderID,
		input.SenderName,
		input.SenderRole,
		input.Text,
	).Scan(
		&message.ID,
		&message.RoomID,
		&message.SenderID,
		&message.SenderName,
		&message.SenderRole,
		&message.Text,
		&message.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListRecentByRoom returns the most recent messages of a room, newest first.
// Same-timestamp messages break the tie on their insert sequence, so arrival
// order holds. Callers wanting display order reverse the slice.
func (r *MessageRepository) ListRecentByRoom(
	ctx context.Context,
	roomID string,
	limit int,
) ([]models.GroupMessage, error) {
	query := `
		SELECT id, room_id, sender_id, sender_name, sender_role, text, created_at
		FROM group_messages
		WHERE room_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.GroupMessage, 0)
	for rows.Next() {
		var message models.GroupMessage
		if err := rows.Scan(
			&message.ID,
			&message.RoomID,
			&message.SenderID,
			&message.SenderName,
			&message.SenderRole,
			&message.Text,
			&message.Timestamp,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
