package services

import (
	"sort"

	"github.com/Dosada05/intramural-stats/models"
)

// Outcome is the win/loss effect of a game's scores.
type Outcome int

const (
	OutcomeNone Outcome = iota // unscored or tied
	OutcomeHomeWin
	OutcomeAwayWin
)

func OutcomeOf(homeScore, awayScore *int) Outcome {
	if homeScore == nil || awayScore == nil {
		return OutcomeNone
	}
	switch {
	case *homeScore > *awayScore:
		return OutcomeHomeWin
	case *awayScore > *homeScore:
		return OutcomeAwayWin
	}
	return OutcomeNone
}

// RecordDelta is a net change to one team's counters.
type RecordDelta struct {
	TeamID int
	Wins   int
	Losses int
}

// ScoreChange is everything reconciliation needs to know about one edit
// of a game's scores.
type ScoreChange struct {
	PrevHome, PrevAway *int
	NewHome, NewAway   *int
	HomeTeamID         *int
	AwayTeamID         *int
}

// Reconcile returns the counter changes that move the teams from the
// previous outcome to the new one. The old outcome is reversed and the
// new one applied; the result is netted per team and ordered by team id
// so concurrent transactions lock team rows in the same order. Nothing
// changes unless both teams are assigned.
func Reconcile(c ScoreChange) []RecordDelta {
	if c.HomeTeamID == nil || c.AwayTeamID == nil {
		return nil
	}
	home, away := *c.HomeTeamID, *c.AwayTeamID

	net := map[int]*RecordDelta{
		home: {TeamID: home},
		away: {TeamID: away},
	}
	apply := func(o Outcome, sign int) {
		switch o {
		case OutcomeHomeWin:
			net[home].Wins += sign
			net[away].Losses += sign
		case OutcomeAwayWin:
			net[away].Wins += sign
			net[home].Losses += sign
		}
	}

	apply(OutcomeOf(c.PrevHome, c.PrevAway), -1)
	apply(OutcomeOf(c.NewHome, c.NewAway), +1)

	deltas := make([]RecordDelta, 0, 2)
	for _, d := range net {
		if d.Wins != 0 || d.Losses != 0 {
			deltas = append(deltas, *d)
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].TeamID < deltas[j].TeamID })
	return deltas
}

// TeamRecord is a team's win/loss counters.
type TeamRecord struct {
	Wins   int
	Losses int
}

// RecordsFromGames replays a game log from zero. Every finalized, untied
// game with both teams assigned counts once for each side, which is
// exactly what reconciliation applies over the life of a league. Teams
// not listed in teamIDs are ignored.
func RecordsFromGames(teamIDs []int, games []*models.Game) map[int]TeamRecord {
	records := make(map[int]TeamRecord, len(teamIDs))
	for _, id := range teamIDs {
		records[id] = TeamRecord{}
	}
	for _, g := range games {
		deltas := Reconcile(ScoreChange{
			NewHome:    g.HomeScore,
			NewAway:    g.AwayScore,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
		})
		for _, d := range deltas {
			rec, ok := records[d.TeamID]
			if !ok {
				continue
			}
			rec.Wins += d.Wins
			rec.Losses += d.Losses
			records[d.TeamID] = rec
		}
	}
	return records
}

// ResultFor classifies a game from one team's point of view.
func ResultFor(scored, allowed int) models.GameResult {
	switch {
	case scored > allowed:
		return models.ResultWin
	case scored < allowed:
		return models.ResultLoss
	}
	return models.ResultTie
}
