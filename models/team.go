package models

import "time"

// Team belongs to exactly one league. Wins and Losses are cumulative
// counters kept in step with the league's finalized games by score
// reconciliation; they are never derived at read time.
type Team struct {
	ID        int       `json:"id" db:"id"`
	LeagueID  int       `json:"league_id" db:"league_id"`
	Name      string    `json:"name" db:"name"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamRole string

const (
	TeamRolePlayer  TeamRole = "player"
	TeamRoleCaptain TeamRole = "captain"
)

func (r TeamRole) Valid() bool {
	return r == TeamRolePlayer || r == TeamRoleCaptain
}

// RosterEntry is a player's membership on a team.
type RosterEntry struct {
	PlayerID  int      `json:"player_id" db:"player_id"`
	TeamID    int      `json:"team_id" db:"team_id"`
	Role      TeamRole `json:"role" db:"role"`
	FirstName string   `json:"first_name" db:"first_name"`
	LastName  string   `json:"last_name" db:"last_name"`
	Email     string   `json:"email" db:"email"`
}

// PlayerTeam is a team seen from one of its players.
type PlayerTeam struct {
	TeamID   int      `json:"team_id" db:"team_id"`
	TeamName string   `json:"team_name" db:"team_name"`
	LeagueID int      `json:"league_id" db:"league_id"`
	Role     TeamRole `json:"role" db:"role"`
}
