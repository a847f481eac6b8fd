package repository

import (
	"context"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

const profileColumns = `
	u.id, u.email, cp.first_name, cp.last_name, cp.phone, cp.avatar_url, u.role, cp.is_active
`

func scanProfile(row interface{ Scan(dest ...any) error }) (*models.Profile, error) {
	var profile models.Profile
	err := row.Scan(
		&profile.UserID,
		&profile.Email,
		&profile.FirstName,
		&profile.LastName,
		&profile.Phone,
		&profile.AvatarURL,
		&profile.Role,
		&profile.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindCoachByEmail resolves the merged coach profile for an email address.
// Only rows with role 'coach' match; a user with another role yields
// pgx.ErrNoRows.
func (r *CoachRepository) FindCoachByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM users u
		JOIN coach_profiles cp ON cp.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1) AND u.role = 'coach'
		LIMIT 1
	`
	return scanProfile(r.db.QueryRow(ctx, query, email))
}

func (r *CoachRepository) FindCoachByID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM users u
		JOIN coach_profiles cp ON cp.user_id = u.id
		WHERE u.id = $1 AND u.role = 'coach'
	`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *CoachRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT id, user_id, first_name, last_name, phone, avatar_url, bio, is_active, created_at, updated_at
		FROM coach_profiles
		WHERE user_id = $1
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Phone,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateCoachProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Bio       *string
}

func (r *CoachRepository) UpdateProfile(
	ctx context.Context,
	userID int64,
	input UpdateCoachProfileInput,
) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    phone      = COALESCE($4, phone),
		    bio        = COALESCE($5, bio),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, first_name, last_name, phone, avatar_url, bio, is_active, created_at, updated_at
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query, userID, input.FirstName, input.LastName, input.Phone, input.Bio).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Phone,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
