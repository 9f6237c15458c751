package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrStatKeeperNotFound      = errors.New("stat keeper not found")
	ErrStatKeeperEmailConflict = errors.New("stat keeper email conflict")
	ErrKeeperAssignmentExists  = errors.New("stat keeper is already assigned to this game")
	ErrKeeperAssignmentInvalid = errors.New("stat keeper or game invalid")
	ErrKeeperAssignmentMissing = errors.New("stat keeper is not assigned to this game")
)

type StatKeeperRepository interface {
	Create(ctx context.Context, keeper *models.StatKeeper) error
	GetByID(ctx context.Context, id int) (*models.StatKeeper, error)
	List(ctx context.Context) ([]*models.StatKeeper, error)
	Update(ctx context.Context, keeper *models.StatKeeper) error
	Delete(ctx context.Context, id int) error
	AssignGame(ctx context.Context, keeperID, gameID int) error
	UnassignGame(ctx context.Context, keeperID, gameID int) error
}

type postgresStatKeeperRepository struct {
	db *sql.DB
}

func NewPostgresStatKeeperRepository(db *sql.DB) StatKeeperRepository {
	return &postgresStatKeeperRepository{db: db}
}

func scanStatKeeper(row rowScanner) (*models.StatKeeper, error) {
	var k models.StatKeeper
	err := row.Scan(&k.ID, &k.FirstName, &k.LastName, &k.Email, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatKeeperNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *postgresStatKeeperRepository) Create(ctx context.Context, keeper *models.StatKeeper) error {
	query := `
		INSERT INTO stat_keepers (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, keeper.FirstName, keeper.LastName, keeper.Email).
		Scan(&keeper.ID, &keeper.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "stat_keepers_email_key") {
			return ErrStatKeeperEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresStatKeeperRepository) GetByID(ctx context.Context, id int) (*models.StatKeeper, error) {
	query := `SELECT id, first_name, last_name, email, created_at FROM stat_keepers WHERE id = $1`
	return scanStatKeeper(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresStatKeeperRepository) List(ctx context.Context) ([]*models.StatKeeper, error) {
	query := `SELECT id, first_name, last_name, email, created_at FROM stat_keepers ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keepers := make([]*models.StatKeeper, 0)
	for rows.Next() {
		k, scanErr := scanStatKeeper(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		keepers = append(keepers, k)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return keepers, nil
}

func (r *postgresStatKeeperRepository) Update(ctx context.Context, keeper *models.StatKeeper) error {
	query := `UPDATE stat_keepers SET first_name = $1, last_name = $2, email = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, keeper.FirstName, keeper.LastName, keeper.Email, keeper.ID)
	if err != nil {
		if isUniqueViolation(err, "stat_keepers_email_key") {
			return ErrStatKeeperEmailConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrStatKeeperNotFound)
}

func (r *postgresStatKeeperRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stat_keepers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStatKeeperNotFound)
}

func (r *postgresStatKeeperRepository) AssignGame(ctx context.Context, keeperID, gameID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO keeper_games (keeper_id, game_id) VALUES ($1, $2)`, keeperID, gameID)
	if err != nil {
		switch {
		case isUniqueViolation(err, ""):
			return ErrKeeperAssignmentExists
		case isForeignKeyViolation(err):
			return ErrKeeperAssignmentInvalid
		}
		return err
	}
	return nil
}

func (r *postgresStatKeeperRepository) UnassignGame(ctx context.Context, keeperID, gameID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM keeper_games WHERE keeper_id = $1 AND game_id = $2`, keeperID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrKeeperAssignmentMissing)
}
