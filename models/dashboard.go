package models

// DashboardStats is the admin overview of the whole installation.
type DashboardStats struct {
	SportsTotal      int `json:"sports_total"`
	LeaguesTotal     int `json:"leagues_total"`
	TeamsTotal       int `json:"teams_total"`
	PlayersTotal     int `json:"players_total"`
	GamesTotal       int `json:"games_total"`
	GamesFinalized   int `json:"games_finalized"`
	GamesUpcoming    int `json:"games_upcoming"`
	StatEventsTotal  int `json:"stat_events_total"`
	PendingReminders int `json:"pending_reminders"`
}
