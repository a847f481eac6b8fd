package models

import "time"

type Event struct {
	ID              string    `json:"id"`
	CoachID         int64     `json:"coach_id"`
	RosterID        string    `json:"roster_id"`
	Title           string    `json:"title"`
	Location        *string   `json:"location"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Game struct {
	ID         string     `json:"id"`
	HomeTeamID string     `json:"home_team_id"`
	AwayTeamID string     `json:"away_team_id"`
	Date       time.Time  `json:"date"`
	Location   *string    `json:"location"`
	HomeScore  *int       `json:"home_score"`
	AwayScore  *int       `json:"away_score"`
	Status     string     `json:"status"`
	ReportedBy *int64     `json:"reported_by"`
	ReportedAt *time.Time `json:"reported_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type GameResult struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	CoachID    int64     `json:"coach_id"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	ReportedAt time.Time `json:"reported_at"`
}
