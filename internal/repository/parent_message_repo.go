package repository

import (
	"context"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type ParentMessageRepository struct {
	db DBTX
}

func NewParentMessageRepository(db DBTX) *ParentMessageRepository {
	return &ParentMessageRepository{db: db}
}

func (r *ParentMessageRepository) ListForRosters(
	ctx context.Context,
	rosterIDs []string,
	limit int,
) ([]models.ParentMessage, error) {
	if len(rosterIDs) == 0 {
		return []models.ParentMessage{}, nil
	}

	query := `
		SELECT id, roster_id, parent_name, parent_email, subject, body, created_at
		FROM parent_messages
		WHERE roster_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, rosterIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ParentMessage, 0)
	for rows.Next() {
		var message models.ParentMessage
		if err := rows.Scan(
			&message.ID,
			&message.RosterID,
			&message.ParentName,
			&message.ParentEmail,
			&message.Subject,
			&message.Body,
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

func (r *ParentMessageRepository) GetByID(ctx context.Context, id string) (*models.ParentMessage, error) {
	query := `
		SELECT id, roster_id, parent_name, parent_email, subject, body, created_at
		FROM parent_messages
		WHERE id = $1
	`
	var message models.ParentMessage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.RosterID,
		&message.ParentName,
		&message.ParentEmail,
		&message.Subject,
		&message.Body,
		&message.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}
