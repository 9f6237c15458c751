package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name conflict")
	ErrTeamLeagueInvalid   = errors.New("team league conflict or invalid")
	ErrTeamInUse           = errors.New("team cannot be deleted as it is in use")
	ErrTeamRecordUnderflow = errors.New("team record would become negative")
	ErrRosterEntryNotFound = errors.New("roster entry not found")
	ErrRosterConflict      = errors.New("player is already on this team")
	ErrRosterInvalid       = errors.New("roster player or team invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error)
	ListByLeagueTx(ctx context.Context, exec SQLExecutor, leagueID int, forUpdate bool) ([]*models.Team, error)
	UpdateName(ctx context.Context, id int, name string) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error

	// AdjustRecord adds the given deltas to a team's win/loss counters.
	AdjustRecord(ctx context.Context, exec SQLExecutor, teamID, winsDelta, lossesDelta int) error
	// SetRecord overwrites a team's counters. Only the rebuild uses it.
	SetRecord(ctx context.Context, exec SQLExecutor, teamID, wins, losses int) error

	AddMember(ctx context.Context, teamID, playerID int, role models.TeamRole) error
	RemoveMember(ctx context.Context, teamID, playerID int) error
	ListRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error)
	ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerTeam, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, league_id, name, wins, losses, logo_key, created_at`

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	var logoKey sql.NullString
	err := row.Scan(&t.ID, &t.LeagueID, &t.Name, &t.Wins, &t.Losses, &logoKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	t.LogoKey = nullStringPtr(logoKey)
	return &t, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "teams_league_name_key"):
		return ErrTeamNameConflict
	case isForeignKeyViolation(err):
		return ErrTeamLeagueInvalid
	}
	return err
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (league_id, name)
		VALUES ($1, $2)
		RETURNING id, wins, losses, created_at`

	err := pickExecutor(exec, r.db).QueryRowContext(ctx, query, team.LeagueID, team.Name).
		Scan(&team.ID, &team.Wins, &team.Losses, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE league_id = $1 ORDER BY name ASC`
	return r.listTeams(ctx, r.db, query, leagueID)
}

// ListByLeagueTx reads a league's teams inside the caller's transaction,
// ordered by id. With forUpdate the rows stay locked until commit, in the
// same order reconciliation locks them.
func (r *postgresTeamRepository) ListByLeagueTx(ctx context.Context, exec SQLExecutor, leagueID int, forUpdate bool) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE league_id = $1 ORDER BY id ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return r.listTeams(ctx, pickExecutor(exec, r.db), query, leagueID)
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		// team_games references teams with ON DELETE RESTRICT
		if isForeignKeyViolation(err) {
			return ErrTeamInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AdjustRecord(ctx context.Context, exec SQLExecutor, teamID, winsDelta, lossesDelta int) error {
	query := `
		UPDATE teams
		SET wins = wins + $1, losses = losses + $2
		WHERE id = $3`

	result, err := pickExecutor(exec, r.db).ExecContext(ctx, query, winsDelta, lossesDelta, teamID)
	if err != nil {
		if isCheckViolation(err, "") {
			return ErrTeamRecordUnderflow
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) SetRecord(ctx context.Context, exec SQLExecutor, teamID, wins, losses int) error {
	result, err := pickExecutor(exec, r.db).ExecContext(ctx,
		`UPDATE teams SET wins = $1, losses = $2 WHERE id = $3`, wins, losses, teamID)
	if err != nil {
		if isCheckViolation(err, "") {
			return ErrTeamRecordUnderflow
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, teamID, playerID int, role models.TeamRole) error {
	query := `INSERT INTO player_teams (player_id, team_id, role) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, playerID, teamID, role)
	if err != nil {
		switch {
		case isUniqueViolation(err, ""):
			return ErrRosterConflict
		case isForeignKeyViolation(err):
			return ErrRosterInvalid
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, playerID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM player_teams WHERE team_id = $1 AND player_id = $2`, teamID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterEntryNotFound)
}

func (r *postgresTeamRepository) ListRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error) {
	query := `
		SELECT pt.player_id, pt.team_id, pt.role, p.first_name, p.last_name, p.email
		FROM player_teams pt
		JOIN players p ON p.id = pt.player_id
		WHERE pt.team_id = $1
		ORDER BY pt.role DESC, p.last_name ASC, p.first_name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]models.RosterEntry, 0)
	for rows.Next() {
		var e models.RosterEntry
		if scanErr := rows.Scan(&e.PlayerID, &e.TeamID, &e.Role, &e.FirstName, &e.LastName, &e.Email); scanErr != nil {
			return nil, scanErr
		}
		roster = append(roster, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *postgresTeamRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerTeam, error) {
	query := `
		SELECT t.id, t.name, t.league_id, pt.role
		FROM player_teams pt
		JOIN teams t ON t.id = pt.team_id
		WHERE pt.player_id = $1
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.PlayerTeam, 0)
	for rows.Next() {
		var pt models.PlayerTeam
		if scanErr := rows.Scan(&pt.TeamID, &pt.TeamName, &pt.LeagueID, &pt.Role); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, pt)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
