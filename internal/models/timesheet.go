package models

import "time"

type TimesheetEntry struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	RosterID  *string   `json:"roster_id"`
	WorkDate  time.Time `json:"work_date"`
	Hours     float64   `json:"hours"`
	Activity  string    `json:"activity"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
