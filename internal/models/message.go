package models

import "time"

// GroupMessage is one entry in a team room's chat feed. Timestamp is assigned
// by the database on insert; feed ordering is timestamp ascending with the
// insert sequence as tie-break.
type GroupMessage struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   int64     `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

type ParentMessage struct {
	ID          string    `json:"id"`
	RosterID    string    `json:"roster_id"`
	ParentName  string    `json:"parent_name"`
	ParentEmail string    `json:"parent_email"`
	Subject     *string   `json:"subject"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}
