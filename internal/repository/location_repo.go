package repository

import (
	"context"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

type LocationRepository struct {
	db DBTX
}

func NewLocationRepository(db DBTX) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	query := `
		SELECT id, name, address, map_url, notes
		FROM locations
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]models.Location, 0)
	for rows.Next() {
		var location models.Location
		if err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Address,
			&location.MapURL,
			&location.Notes,
		); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}
