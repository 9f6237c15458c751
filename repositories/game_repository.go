package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameLeagueInvalid = errors.New("game league invalid")
	ErrGameTeamInvalid   = errors.New("game team invalid")
	ErrLineupInvalid     = errors.New("lineup player or game invalid")
)

// GameFilter narrows game listings. Exactly one of LeagueID, TeamID or
// KeeperID is expected to be set.
type GameFilter struct {
	LeagueID     *int
	TeamID       *int
	KeeperID     *int
	UpcomingOnly bool
	Today        time.Time
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	SetTeams(ctx context.Context, exec SQLExecutor, gameID, homeTeamID, awayTeamID int) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// GetForUpdate reads the game and locks its row until the
	// surrounding transaction ends. exec must be a *sql.Tx.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, filter GameFilter) ([]*models.Game, error)

	IsPlayerOnGameTeam(ctx context.Context, gameID, playerID int) (bool, error)
	SetLineupEntry(ctx context.Context, entry *models.LineupEntry) error
	ListLineup(ctx context.Context, gameID int) ([]models.LineupEntry, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameSelect = `
	SELECT g.id, g.league_id, g.date_played, to_char(g.start_time, 'HH24:MI'), g.location,
	       g.home_score, g.away_score, g.created_at,
	       hg.team_id, ht.name, ag.team_id, awt.name
	FROM games g
	LEFT JOIN team_games hg ON hg.game_id = g.id AND hg.is_home_team
	LEFT JOIN teams ht ON ht.id = hg.team_id
	LEFT JOIN team_games ag ON ag.game_id = g.id AND NOT ag.is_home_team
	LEFT JOIN teams awt ON awt.id = ag.team_id`

func scanGame(row rowScanner) (*models.Game, error) {
	var (
		g                      models.Game
		startTime, location    sql.NullString
		homeScore, awayScore   sql.NullInt64
		homeID, awayID         sql.NullInt64
		homeName, awayTeamName sql.NullString
	)
	err := row.Scan(
		&g.ID, &g.LeagueID, &g.DatePlayed, &startTime, &location,
		&homeScore, &awayScore, &g.CreatedAt,
		&homeID, &homeName, &awayID, &awayTeamName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	g.StartTime = nullStringPtr(startTime)
	g.Location = nullStringPtr(location)
	g.HomeScore = nullIntPtr(homeScore)
	g.AwayScore = nullIntPtr(awayScore)
	g.HomeTeamID = nullIntPtr(homeID)
	g.AwayTeamID = nullIntPtr(awayID)
	g.HomeTeamName = nullStringPtr(homeName)
	g.AwayTeamName = nullStringPtr(awayTeamName)
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (league_id, date_played, start_time, location, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := pickExecutor(exec, r.db).QueryRowContext(ctx, query,
		game.LeagueID, game.DatePlayed.Format(time.DateOnly), game.StartTime, game.Location,
		game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrGameLeagueInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) SetTeams(ctx context.Context, exec SQLExecutor, gameID, homeTeamID, awayTeamID int) error {
	e := pickExecutor(exec, r.db)

	if _, err := e.ExecContext(ctx, `DELETE FROM team_games WHERE game_id = $1`, gameID); err != nil {
		return err
	}

	query := `
		INSERT INTO team_games (team_id, game_id, is_home_team)
		VALUES ($1, $3, TRUE), ($2, $3, FALSE)`

	if _, err := e.ExecContext(ctx, query, homeTeamID, awayTeamID, gameID); err != nil {
		switch {
		case isForeignKeyViolation(err):
			return ErrGameTeamInvalid
		case isUniqueViolation(err, ""):
			return ErrGameTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := gameSelect + ` WHERE g.id = $1`
	return scanGame(pickExecutor(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := gameSelect + ` WHERE g.id = $1 FOR UPDATE OF g`
	return scanGame(pickExecutor(exec, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		UPDATE games
		SET date_played = $1, start_time = $2, location = $3, home_score = $4, away_score = $5
		WHERE id = $6`

	result, err := pickExecutor(exec, r.db).ExecContext(ctx, query,
		game.DatePlayed.Format(time.DateOnly), game.StartTime, game.Location,
		game.HomeScore, game.AwayScore, game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := pickExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) List(ctx context.Context, filter GameFilter) ([]*models.Game, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(gameSelect)

	args := []interface{}{}
	conditions := []string{}
	addArg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.LeagueID != nil {
		conditions = append(conditions, "g.league_id = "+addArg(*filter.LeagueID))
	}
	if filter.TeamID != nil {
		p := addArg(*filter.TeamID)
		conditions = append(conditions, "(hg.team_id = "+p+" OR ag.team_id = "+p+")")
	}
	if filter.KeeperID != nil {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM keeper_games kg WHERE kg.game_id = g.id AND kg.keeper_id = "+addArg(*filter.KeeperID)+")")
	}
	if filter.UpcomingOnly {
		conditions = append(conditions, "g.date_played >= "+addArg(filter.Today.Format(time.DateOnly)))
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY g.date_played ASC, g.start_time ASC NULLS LAST, g.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) IsPlayerOnGameTeam(ctx context.Context, gameID, playerID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM team_games tg
			JOIN player_teams pt ON pt.team_id = tg.team_id
			WHERE tg.game_id = $1 AND pt.player_id = $2
		)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, gameID, playerID).Scan(&exists)
	return exists, err
}

func (r *postgresGameRepository) SetLineupEntry(ctx context.Context, entry *models.LineupEntry) error {
	query := `
		INSERT INTO player_games (player_id, game_id, is_starter, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, game_id)
		DO UPDATE SET is_starter = EXCLUDED.is_starter, position = EXCLUDED.position`

	_, err := r.db.ExecContext(ctx, query, entry.PlayerID, entry.GameID, entry.IsStarter, entry.Position)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrLineupInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) ListLineup(ctx context.Context, gameID int) ([]models.LineupEntry, error) {
	query := `
		SELECT pg.player_id, pg.game_id, pg.is_starter, pg.position, p.first_name, p.last_name
		FROM player_games pg
		JOIN players p ON p.id = pg.player_id
		WHERE pg.game_id = $1
		ORDER BY pg.is_starter DESC, p.last_name ASC, p.first_name ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lineup := make([]models.LineupEntry, 0)
	for rows.Next() {
		var e models.LineupEntry
		var position sql.NullString
		if scanErr := rows.Scan(&e.PlayerID, &e.GameID, &e.IsStarter, &position, &e.FirstName, &e.LastName); scanErr != nil {
			return nil, scanErr
		}
		e.Position = nullStringPtr(position)
		lineup = append(lineup, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lineup, nil
}
