package models

import "time"

type AdminPost struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	TargetAudience string    `json:"target_audience"`
	CreatedBy      *string   `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type Location struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	MapURL  *string `json:"map_url"`
	Notes   *string `json:"notes"`
}
