package models

import "time"

// TeamStanding is one row of a league table.
type TeamStanding struct {
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	GamesPlayed   int     `json:"games_played"`
	WinPercentage float64 `json:"win_percentage"`
}

// SplitLine summarises a team's finalized games on one side of the
// home/away split.
type SplitLine struct {
	Games            int     `json:"games"`
	Wins             int     `json:"wins"`
	AvgPointsScored  float64 `json:"avg_points_scored"`
	AvgPointsAllowed float64 `json:"avg_points_allowed"`
}

type HomeAwaySplits struct {
	TeamID int       `json:"team_id"`
	Home   SplitLine `json:"home"`
	Away   SplitLine `json:"away"`
}

type HeadToHead struct {
	TeamID           int     `json:"team_id"`
	OpponentID       int     `json:"opponent_id"`
	Games            int     `json:"games"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	AvgPointsScored  float64 `json:"avg_points_scored"`
	AvgPointsAllowed float64 `json:"avg_points_allowed"`
}

// LeagueComparison sets a team's averages next to the league's. Every
// league score is both scored by one team and allowed by another, so the
// league side is a single per-team-game average.
type LeagueComparison struct {
	TeamID                     int     `json:"team_id"`
	LeagueID                   int     `json:"league_id"`
	TeamAvgPointsScored        float64 `json:"team_avg_points_scored"`
	TeamAvgPointsAllowed       float64 `json:"team_avg_points_allowed"`
	LeagueAvgPointsPerTeamGame float64 `json:"league_avg_points_per_team_game"`
}

type GameResult string

const (
	ResultWin  GameResult = "W"
	ResultLoss GameResult = "L"
	ResultTie  GameResult = "T"
)

// PerformancePoint is one game in a team's performance-over-time series.
type PerformancePoint struct {
	GameID        int        `json:"game_id"`
	Date          time.Time  `json:"date"`
	OpponentID    int        `json:"opponent_id"`
	PointsScored  int        `json:"points_scored"`
	PointsAllowed int        `json:"points_allowed"`
	Result        GameResult `json:"result"`
}
