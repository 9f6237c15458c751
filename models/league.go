package models

import "time"

// League is one season of a sport, e.g. "Basketball, Fall 2025".
type League struct {
	ID        int       `json:"id" db:"id"`
	SportID   int       `json:"sport_id" db:"sport_id"`
	Name      string    `json:"name" db:"name"`
	Semester  string    `json:"semester" db:"semester"`
	Year      int       `json:"year" db:"year"`
	MaxTeams  int       `json:"max_teams" db:"max_teams"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Sport *Sport `json:"sport,omitempty" db:"-"`
}

// Champion records the team that won a league.
type Champion struct {
	LeagueID  int       `json:"league_id" db:"league_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
