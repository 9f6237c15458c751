package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueSportInvalid = errors.New("league sport conflict or invalid")
	ErrLeagueInUse        = errors.New("league cannot be deleted as it is in use")
	ErrChampionNotFound   = errors.New("champion not found")
	ErrChampionInvalid    = errors.New("champion league or team invalid")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	// GetForUpdate locks the league row so team creation can check
	// max_teams without racing. exec must be a *sql.Tx.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.League, error)
	List(ctx context.Context, sportID *int) ([]*models.League, error)
	Update(ctx context.Context, league *models.League) error
	Delete(ctx context.Context, id int) error
	CountTeams(ctx context.Context, exec SQLExecutor, leagueID int) (int, error)
	SetChampion(ctx context.Context, leagueID, teamID int) (*models.Champion, error)
	GetChampion(ctx context.Context, leagueID int) (*models.Champion, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

const leagueColumns = `id, sport_id, name, semester, year, max_teams, created_at`

func scanLeague(row rowScanner) (*models.League, error) {
	var l models.League
	err := row.Scan(&l.ID, &l.SportID, &l.Name, &l.Semester, &l.Year, &l.MaxTeams, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (sport_id, name, semester, year, max_teams)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.SportID, league.Name, league.Semester, league.Year, league.MaxTeams,
	).Scan(&league.ID, &league.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLeagueSportInvalid
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`
	return scanLeague(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresLeagueRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1 FOR UPDATE`
	return scanLeague(pickExecutor(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresLeagueRepository) List(ctx context.Context, sportID *int) ([]*models.League, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + leagueColumns + ` FROM leagues`)

	args := []interface{}{}
	if sportID != nil {
		args = append(args, *sportID)
		queryBuilder.WriteString(" WHERE sport_id = $" + strconv.Itoa(len(args)))
	}
	queryBuilder.WriteString(" ORDER BY year DESC, semester ASC, name ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		l, scanErr := scanLeague(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leagues = append(leagues, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	query := `
		UPDATE leagues
		SET sport_id = $1, name = $2, semester = $3, year = $4, max_teams = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		league.SportID, league.Name, league.Semester, league.Year, league.MaxTeams, league.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLeagueSportInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLeagueInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) CountTeams(ctx context.Context, exec SQLExecutor, leagueID int) (int, error) {
	var count int
	err := pickExecutor(exec, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE league_id = $1`, leagueID,
	).Scan(&count)
	return count, err
}

func (r *postgresLeagueRepository) SetChampion(ctx context.Context, leagueID, teamID int) (*models.Champion, error) {
	query := `
		INSERT INTO champions (league_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (league_id) DO UPDATE SET team_id = EXCLUDED.team_id, created_at = NOW()
		RETURNING league_id, team_id, created_at`

	var c models.Champion
	err := r.db.QueryRowContext(ctx, query, leagueID, teamID).Scan(&c.LeagueID, &c.TeamID, &c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrChampionInvalid
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresLeagueRepository) GetChampion(ctx context.Context, leagueID int) (*models.Champion, error) {
	query := `
		SELECT c.league_id, c.team_id, c.created_at, t.id, t.league_id, t.name, t.wins, t.losses, t.created_at
		FROM champions c
		JOIN teams t ON t.id = c.team_id
		WHERE c.league_id = $1`

	var c models.Champion
	var t models.Team
	err := r.db.QueryRowContext(ctx, query, leagueID).Scan(
		&c.LeagueID, &c.TeamID, &c.CreatedAt,
		&t.ID, &t.LeagueID, &t.Name, &t.Wins, &t.Losses, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionNotFound
		}
		return nil, err
	}
	c.Team = &t
	return &c, nil
}
