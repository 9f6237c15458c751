package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/intramural-stats/models"
)

// StatsRepository runs the read-only aggregations behind standings,
// splits, head-to-head and performance views. "today" is passed in so
// the past-games cut-off is deterministic in tests.
type StatsRepository interface {
	StandingRows(ctx context.Context, leagueID int) ([]models.TeamStanding, error)
	HomeAwaySplits(ctx context.Context, teamID int, today time.Time) (*models.HomeAwaySplits, error)
	HeadToHead(ctx context.Context, teamID, opponentID int, today time.Time) (*models.HeadToHead, error)
	TeamAverages(ctx context.Context, teamID int, today time.Time) (scored, allowed float64, err error)
	LeagueAveragePoints(ctx context.Context, leagueID int, today time.Time) (float64, error)
	PerformanceSeries(ctx context.Context, teamID int, today time.Time) ([]models.PerformancePoint, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

// teamResults yields one row per finalized past game of team $1, seen
// from that team's side.
const teamResults = `
	WITH results AS (
		SELECT g.id AS game_id,
		       g.date_played,
		       tg.is_home_team,
		       opp.team_id AS opponent_id,
		       CASE WHEN tg.is_home_team THEN g.home_score ELSE g.away_score END AS scored,
		       CASE WHEN tg.is_home_team THEN g.away_score ELSE g.home_score END AS allowed
		FROM team_games tg
		JOIN games g ON g.id = tg.game_id
		LEFT JOIN team_games opp ON opp.game_id = g.id AND opp.is_home_team <> tg.is_home_team
		WHERE tg.team_id = $1
		  AND g.home_score IS NOT NULL
		  AND g.away_score IS NOT NULL
		  AND g.date_played < $2
	)`

func (r *postgresStatsRepository) StandingRows(ctx context.Context, leagueID int) ([]models.TeamStanding, error) {
	query := `
		SELECT id, name, wins, losses,
		       wins + losses AS games_played,
		       CASE WHEN wins + losses = 0 THEN 0
		            ELSE ROUND(wins * 100.0 / (wins + losses), 2)
		       END::float8 AS win_percentage
		FROM teams
		WHERE league_id = $1
		ORDER BY win_percentage DESC, wins DESC, losses ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.TeamStanding, 0)
	for rows.Next() {
		var s models.TeamStanding
		if scanErr := rows.Scan(&s.TeamID, &s.TeamName, &s.Wins, &s.Losses, &s.GamesPlayed, &s.WinPercentage); scanErr != nil {
			return nil, scanErr
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresStatsRepository) HomeAwaySplits(ctx context.Context, teamID int, today time.Time) (*models.HomeAwaySplits, error) {
	query := teamResults + `
		SELECT is_home_team,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE scored > allowed),
		       ROUND(AVG(scored)::numeric, 2)::float8,
		       ROUND(AVG(allowed)::numeric, 2)::float8
		FROM results
		GROUP BY is_home_team`

	rows, err := r.db.QueryContext(ctx, query, teamID, today.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := &models.HomeAwaySplits{TeamID: teamID}
	for rows.Next() {
		var isHome bool
		var line models.SplitLine
		if scanErr := rows.Scan(&isHome, &line.Games, &line.Wins, &line.AvgPointsScored, &line.AvgPointsAllowed); scanErr != nil {
			return nil, scanErr
		}
		if isHome {
			splits.Home = line
		} else {
			splits.Away = line
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return splits, nil
}

func (r *postgresStatsRepository) HeadToHead(ctx context.Context, teamID, opponentID int, today time.Time) (*models.HeadToHead, error) {
	query := teamResults + `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE scored > allowed),
		       COUNT(*) FILTER (WHERE scored < allowed),
		       COALESCE(ROUND(AVG(scored)::numeric, 2), 0)::float8,
		       COALESCE(ROUND(AVG(allowed)::numeric, 2), 0)::float8
		FROM results
		WHERE opponent_id = $3`

	h2h := &models.HeadToHead{TeamID: teamID, OpponentID: opponentID}
	err := r.db.QueryRowContext(ctx, query, teamID, today.Format(time.DateOnly), opponentID).Scan(
		&h2h.Games, &h2h.Wins, &h2h.Losses, &h2h.AvgPointsScored, &h2h.AvgPointsAllowed,
	)
	if err != nil {
		return nil, err
	}
	return h2h, nil
}

func (r *postgresStatsRepository) TeamAverages(ctx context.Context, teamID int, today time.Time) (float64, float64, error) {
	query := teamResults + `
		SELECT COALESCE(ROUND(AVG(scored)::numeric, 2), 0)::float8,
		       COALESCE(ROUND(AVG(allowed)::numeric, 2), 0)::float8
		FROM results`

	var scored, allowed float64
	err := r.db.QueryRowContext(ctx, query, teamID, today.Format(time.DateOnly)).Scan(&scored, &allowed)
	return scored, allowed, err
}

// LeagueAveragePoints averages every score of the league's finalized
// past games, home and away alike.
func (r *postgresStatsRepository) LeagueAveragePoints(ctx context.Context, leagueID int, today time.Time) (float64, error) {
	query := `
		SELECT COALESCE(ROUND(AVG(v.points)::numeric, 2), 0)::float8
		FROM games g
		CROSS JOIN LATERAL (VALUES (g.home_score), (g.away_score)) AS v(points)
		WHERE g.league_id = $1
		  AND g.home_score IS NOT NULL
		  AND g.away_score IS NOT NULL
		  AND g.date_played < $2`

	var avg float64
	err := r.db.QueryRowContext(ctx, query, leagueID, today.Format(time.DateOnly)).Scan(&avg)
	return avg, err
}

func (r *postgresStatsRepository) PerformanceSeries(ctx context.Context, teamID int, today time.Time) ([]models.PerformancePoint, error) {
	query := teamResults + `
		SELECT game_id, date_played, COALESCE(opponent_id, 0), scored, allowed
		FROM results
		ORDER BY date_played ASC, game_id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID, today.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make([]models.PerformancePoint, 0)
	for rows.Next() {
		var p models.PerformancePoint
		if scanErr := rows.Scan(&p.GameID, &p.Date, &p.OpponentID, &p.PointsScored, &p.PointsAllowed); scanErr != nil {
			return nil, scanErr
		}
		series = append(series, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}
