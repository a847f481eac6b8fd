package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

// TxDB runs single statements and opens transactions. Satisfied by
// *pgxpool.Pool.
type TxDB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type GameRepository struct {
	db TxDB
}

func NewGameRepository(db TxDB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `
		SELECT id, home_team_id, away_team_id, date, location, home_score, away_score,
		       status, reported_by, reported_at, created_at, updated_at
		FROM game_schedules
		WHERE id = $1
	`
	return scanGame(r.db.QueryRow(ctx, query, id))
}

// ListForTeams returns games in which any of the given rosters plays, soonest
// first.
func (r *GameRepository) ListForTeams(ctx context.Context, teamIDs []string) ([]models.Game, error) {
	if len(teamIDs) == 0 {
		return []models.Game{}, nil
	}

	query := `
		SELECT id, home_team_id, away_team_id, date, location, home_score, away_score,
		       status, reported_by, reported_at, created_at, updated_at
		FROM game_schedules
		WHERE home_team_id = ANY($1) OR away_team_id = ANY($1)
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

type ReportScoreInput struct {
	GameID    string
	CoachID   int64
	HomeScore int
	AwayScore int
}

// ReportScore writes the final score onto the schedule row and records a
// game_results entry. Both writes land in one transaction: a failed insert
// must not leave the game marked completed.
func (r *GameRepository) ReportScore(
	ctx context.Context,
	input ReportScoreInput,
) (*models.GameResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	updateQuery := `
		UPDATE game_schedules
		SET home_score = $2, away_score = $3, status = 'completed',
		    reported_by = $4, reported_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(
		ctx,
		updateQuery,
		input.GameID,
		input.HomeScore,
		input.AwayScore,
		input.CoachID,
	); err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO game_results (game_id, coach_id, home_score, away_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, game_id, coach_id, home_score, away_score, reported_at
	`
	var result models.GameResult
	if err := tx.QueryRow(
		ctx,
		insertQuery,
		input.GameID,
		input.CoachID,
		input.HomeScore,
		input.AwayScore,
	).Scan(
		&result.ID,
		&result.GameID,
		&result.CoachID,
		&result.HomeScore,
		&result.AwayScore,
		&result.ReportedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

func scanGame(row interface{ Scan(dest ...any) error }) (*models.Game, error) {
	var game models.Game
	var reportedAt *time.Time
	err := row.Scan(
		&game.ID,
		&game.HomeTeamID,
		&game.AwayTeamID,
		&game.Date,
		&game.Location,
		&game.HomeScore,
		&game.AwayScore,
		&game.Status,
		&game.ReportedBy,
		&reportedAt,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	game.ReportedAt = reportedAt
	return &game, nil
}
