package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrAwardNotFound = errors.New("award not found")
	ErrAwardInvalid  = errors.New("award league, player or team invalid")
)

type AwardRepository interface {
	Create(ctx context.Context, award *models.Award) error
	GetByID(ctx context.Context, id int) (*models.Award, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Award, error)
	Update(ctx context.Context, award *models.Award) error
	Delete(ctx context.Context, id int) error
}

type postgresAwardRepository struct {
	db *sql.DB
}

func NewPostgresAwardRepository(db *sql.DB) AwardRepository {
	return &postgresAwardRepository{db: db}
}

const awardColumns = `id, league_id, name, description, player_id, team_id, created_at`

func scanAward(row rowScanner) (*models.Award, error) {
	var a models.Award
	var description sql.NullString
	var playerID, teamID sql.NullInt64
	err := row.Scan(&a.ID, &a.LeagueID, &a.Name, &description, &playerID, &teamID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}
	a.Description = nullStringPtr(description)
	a.PlayerID = nullIntPtr(playerID)
	a.TeamID = nullIntPtr(teamID)
	return &a, nil
}

func (r *postgresAwardRepository) Create(ctx context.Context, award *models.Award) error {
	query := `
		INSERT INTO awards (league_id, name, description, player_id, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		award.LeagueID, award.Name, award.Description, award.PlayerID, award.TeamID,
	).Scan(&award.ID, &award.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAwardInvalid
		}
		return err
	}
	return nil
}

func (r *postgresAwardRepository) GetByID(ctx context.Context, id int) (*models.Award, error) {
	return scanAward(r.db.QueryRowContext(ctx, `SELECT `+awardColumns+` FROM awards WHERE id = $1`, id))
}

func (r *postgresAwardRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Award, error) {
	query := `SELECT ` + awardColumns + ` FROM awards WHERE league_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	awards := make([]*models.Award, 0)
	for rows.Next() {
		a, scanErr := scanAward(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		awards = append(awards, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return awards, nil
}

func (r *postgresAwardRepository) Update(ctx context.Context, award *models.Award) error {
	query := `
		UPDATE awards
		SET name = $1, description = $2, player_id = $3, team_id = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		award.Name, award.Description, award.PlayerID, award.TeamID, award.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrAwardInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrAwardNotFound)
}

func (r *postgresAwardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM awards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAwardNotFound)
}
