package repository

import (
	"context"
	"encoding/json"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type RosterRepository struct {
	db DBTX
}

func NewRosterRepository(db DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByCoach(ctx context.Context, coachID int64) ([]models.Roster, error) {
	query := `
		SELECT id, name, season, age_group, coach_id, participants, created_at, updated_at
		FROM rosters
		WHERE coach_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := make([]models.Roster, 0)
	for rows.Next() {
		roster, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, *roster)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rosters, nil
}

func (r *RosterRepository) GetByID(ctx context.Context, id string) (*models.Roster, error) {
	query := `
		SELECT id, name, season, age_group, coach_id, participants, created_at, updated_at
		FROM rosters
		WHERE id = $1
	`
	return scanRoster(r.db.QueryRow(ctx, query, id))
}

func scanRoster(row interface{ Scan(dest ...any) error }) (*models.Roster, error) {
	var roster models.Roster
	var participants []byte
	err := row.Scan(
		&roster.ID,
		&roster.Name,
		&roster.Season,
		&roster.AgeGroup,
		&roster.CoachID,
		&participants,
		&roster.CreatedAt,
		&roster.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	roster.Participants = make([]models.Player, 0)
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &roster.Participants); err != nil {
			return nil, err
		}
	}
	return &roster, nil
}
