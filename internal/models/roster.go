package models

import "time"

type Player struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	JerseyNumber *int    `json:"jersey_number,omitempty"`
	ParentName   *string `json:"parent_name,omitempty"`
	ParentEmail  *string `json:"parent_email,omitempty"`
	ParentPhone  *string `json:"parent_phone,omitempty"`
}

type Roster struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Season       string    `json:"season"`
	AgeGroup     *string   `json:"age_group"`
	CoachID      int64     `json:"coach_id"`
	Participants []Player  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
