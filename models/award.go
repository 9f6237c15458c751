package models

import "time"

// Award is a league honour given to a player, a team, or neither (e.g. a
// sportsmanship note recorded before a recipient is chosen).
type Award struct {
	ID          int       `json:"id" db:"id"`
	LeagueID    int       `json:"league_id" db:"league_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	PlayerID    *int      `json:"player_id,omitempty" db:"player_id"`
	TeamID      *int      `json:"team_id,omitempty" db:"team_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Reminder is a message a captain schedules for the team roster.
type Reminder struct {
	ID        int        `json:"id" db:"id"`
	TeamID    int        `json:"team_id" db:"team_id"`
	GameID    *int       `json:"game_id,omitempty" db:"game_id"`
	Message   string     `json:"message" db:"message"`
	RemindAt  time.Time  `json:"remind_at" db:"remind_at"`
	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
