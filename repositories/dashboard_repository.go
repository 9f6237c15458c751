package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/intramural-stats/models"
)

type DashboardRepository interface {
	Stats(ctx context.Context, today time.Time) (models.DashboardStats, error)
}

type postgresDashboardRepository struct {
	db *sql.DB
}

func NewPostgresDashboardRepository(db *sql.DB) DashboardRepository {
	return &postgresDashboardRepository{db: db}
}

const dashboardStatsQuery = `
	SELECT
		(SELECT COUNT(*) FROM sports),
		(SELECT COUNT(*) FROM leagues),
		(SELECT COUNT(*) FROM teams),
		(SELECT COUNT(*) FROM players),
		(SELECT COUNT(*) FROM games),
		(SELECT COUNT(*) FROM games WHERE home_score IS NOT NULL AND away_score IS NOT NULL),
		(SELECT COUNT(*) FROM games WHERE date_played >= $1),
		(SELECT COUNT(*) FROM stat_events),
		(SELECT COUNT(*) FROM reminders WHERE sent_at IS NULL)`

func (r *postgresDashboardRepository) Stats(ctx context.Context, today time.Time) (models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.db.QueryRowContext(ctx, dashboardStatsQuery, today.Format(time.DateOnly)).Scan(
		&s.SportsTotal, &s.LeaguesTotal, &s.TeamsTotal, &s.PlayersTotal,
		&s.GamesTotal, &s.GamesFinalized, &s.GamesUpcoming,
		&s.StatEventsTotal, &s.PendingReminders,
	)
	return s, err
}
