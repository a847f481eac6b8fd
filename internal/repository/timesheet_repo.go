package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type TimesheetRepository struct {
	db DBTX
}

func NewTimesheetRepository(db DBTX) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) ListByCoach(
	ctx context.Context,
	coachID int64,
) ([]models.TimesheetEntry, error) {
	query := `
		SELECT id, coach_id, roster_id, work_date, hours, activity, notes, status, created_at, updated_at
		FROM timesheet_entries
		WHERE coach_id = $1
		ORDER BY work_date DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.TimesheetEntry, 0)
	for rows.Next() {
		var entry models.TimesheetEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.CoachID,
			&entry.RosterID,
			&entry.WorkDate,
			&entry.Hours,
			&entry.Activity,
			&entry.Notes,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type CreateTimesheetInput struct {
	CoachID  int64
	RosterID *string
	WorkDate time.Time
	Hours    float64
	Activity string
	Notes    *string
}

func (r *TimesheetRepository) Create(
	ctx context.Context,
	input CreateTimesheetInput,
) (*models.TimesheetEntry, error) {
	query := `
		INSERT INTO timesheet_entries (coach_id, roster_id, work_date, hours, activity, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'submitted')
		RETURNING id, coach_id, roster_id, work_date, hours, activity, notes, status, created_at, updated_at
	`
	var entry models.TimesheetEntry
	err := r.db.QueryRow(
		ctx,
		query,
		input.CoachID,
		input.RosterID,
		input.WorkDate,
		input.Hours,
		input.Activity,
		input.Notes,
	).Scan(
		&entry.ID,
		&entry.CoachID,
		&entry.RosterID,
		&entry.WorkDate,
		&entry.Hours,
		&entry.Activity,
		&entry.Notes,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type UpdateTimesheetInput struct {
	WorkDate *time.Time
	Hours    *float64
	Activity *string
	Notes    *string
}

func (r *TimesheetRepository) Update(
	ctx context.Context,
	id int64,
	coachID int64,
	input UpdateTimesheetInput,
) (*models.TimesheetEntry, error) {
	query := `
		UPDATE timesheet_entries
		SET work_date = COALESCE($3, work_date),
		    hours     = COALESCE($4, hours),
		    activity  = COALESCE($5, activity),
		    notes     = COALESCE($6, notes),
		    updated_at = NOW()
		WHERE id = $1 AND coach_id = $2 AND status = 'submitted'
		RETURNING id, coach_id, roster_id, work_date, hours, activity, notes, status, created_at, updated_at
	`
	var entry models.TimesheetEntry
	err := r.db.QueryRow(
		ctx,
		query,
		id,
		coachID,
		input.WorkDate,
		input.Hours,
		input.Activity,
		input.Notes,
	).Scan(
		&entry.ID,
		&entry.CoachID,
		&entry.RosterID,
		&entry.WorkDate,
		&entry.Hours,
		&entry.Activity,
		&entry.Notes,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *TimesheetRepository) Delete(ctx context.Context, id int64, coachID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM timesheet_entries
		WHERE id = $1 AND coach_id = $2 AND status = 'submitted'
	`, id, coachID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
