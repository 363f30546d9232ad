package models

import "time"

// Reaction is a user's emoji reaction to a loop, one per (user, loop).
// Reaction timestamps feed the trending tie-break.
type Reaction struct {
	ID        string
	LoopID    string
	UserID    string
	Emoji     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
