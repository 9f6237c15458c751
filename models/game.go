package models

import "time"

// Game is a scheduled contest between a home and an away team. The two
// scores are nil until the game is played; a game with both scores set
// is finalized.
type Game struct {
	ID         int       `json:"id" db:"id"`
	LeagueID   int       `json:"league_id" db:"league_id"`
	DatePlayed time.Time `json:"date_played" db:"date_played"`
	StartTime  *string   `json:"start_time,omitempty" db:"start_time"`
	Location   *string   `json:"location,omitempty" db:"location"`
	HomeScore  *int      `json:"home_score" db:"home_score"`
	AwayScore  *int      `json:"away_score" db:"away_score"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	HomeTeamID   *int    `json:"home_team_id,omitempty" db:"-"`
	AwayTeamID   *int    `json:"away_team_id,omitempty" db:"-"`
	HomeTeamName *string `json:"home_team_name,omitempty" db:"-"`
	AwayTeamName *string `json:"away_team_name,omitempty" db:"-"`
}

func (g *Game) Finalized() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// TeamsAssigned reports whether both sides of the game are known.
func (g *Game) TeamsAssigned() bool {
	return g.HomeTeamID != nil && g.AwayTeamID != nil
}

// LineupEntry is a player's participation in a single game.
type LineupEntry struct {
	PlayerID  int     `json:"player_id" db:"player_id"`
	GameID    int     `json:"game_id" db:"game_id"`
	IsStarter bool    `json:"is_starter" db:"is_starter"`
	Position  *string `json:"position,omitempty" db:"position"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
}
