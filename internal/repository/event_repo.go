package repository

import (
	"context"
	"time"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

type CreatePracticeInput struct {
	CoachID         int64
	RosterID        string
	Title           string
	Location        *string
	Date            time.Time
	DurationMinutes int
	Notes           *string
}

func (r *EventRepository) CreatePractice(
	ctx context.Context,
	input CreatePracticeInput,
) (*models.Event, error) {
	query := `
		INSERT INTO events (coach_id, roster_id, title, location, date, duration_minutes, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, coach_id, roster_id, title, location, date, duration_minutes, notes, created_at, updated_at
	`
	var event models.Event
	err := r.db.QueryRow(
		ctx,
		query,
		input.CoachID,
		input.RosterID,
		input.Title,
		input.Location,
		input.Date.UTC(),
		input.DurationMinutes,
		input.Notes,
	).Scan(
		&event.ID,
		&event.CoachID,
		&event.RosterID,
		&event.Title,
		&event.Location,
		&event.Date,
		&event.DurationMinutes,
		&event.Notes,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Event, error) {
	query := `
		SELECT id, coach_id, roster_id, title, location, date, duration_minutes, notes, created_at, updated_at
		FROM events
		WHERE coach_id = $1
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID,
			&event.CoachID,
			&event.RosterID,
			&event.Title,
			&event.Location,
			&event.Date,
			&event.DurationMinutes,
			&event.Notes,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
