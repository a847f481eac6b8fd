package repository

import (
	"context"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type AnnouncementRepository struct {
	db DBTX
}

func NewAnnouncementRepository(db DBTX) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// ListForCoaches returns the most recent posts targeted at coaches or at
// everyone, newest first.
func (r *AnnouncementRepository) ListForCoaches(
	ctx context.Context,
	limit int,
) ([]models.AdminPost, error) {
	query := `
		SELECT id, title, body, target_audience, created_by, created_at
		FROM admin_posts
		WHERE target_audience IN ('coaches', 'all')
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.AdminPost, 0)
	for rows.Next() {
		var post models.AdminPost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.TargetAudience,
			&post.CreatedBy,
			&post.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
