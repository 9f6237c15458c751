package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrStatEventNotFound = errors.New("stat event not found")
	ErrStatEventInvalid  = errors.New("stat event player or game invalid")
)

type StatEventRepository interface {
	Create(ctx context.Context, event *models.StatEvent) error
	GetByID(ctx context.Context, id int) (*models.StatEvent, error)
	Update(ctx context.Context, event *models.StatEvent) error
	Delete(ctx context.Context, id int) error
	ListByGame(ctx context.Context, gameID int) ([]*models.StatEvent, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.StatEvent, error)
	TotalsByPlayer(ctx context.Context, playerID int) ([]models.StatTotal, error)
}

type postgresStatEventRepository struct {
	db *sql.DB
}

func NewPostgresStatEventRepository(db *sql.DB) StatEventRepository {
	return &postgresStatEventRepository{db: db}
}

const statEventSelect = `
	SELECT se.id, se.performed_by, se.scored_during, se.stat_type, se.points, se.description,
	       se.created_at, p.first_name || ' ' || p.last_name
	FROM stat_events se
	JOIN players p ON p.id = se.performed_by`

func scanStatEvent(row rowScanner) (*models.StatEvent, error) {
	var e models.StatEvent
	var description, playerName sql.NullString
	err := row.Scan(&e.ID, &e.PerformedBy, &e.ScoredDuring, &e.StatType, &e.Points, &description,
		&e.CreatedAt, &playerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatEventNotFound
		}
		return nil, err
	}
	e.Description = nullStringPtr(description)
	e.PlayerName = nullStringPtr(playerName)
	return &e, nil
}

func (r *postgresStatEventRepository) Create(ctx context.Context, event *models.StatEvent) error {
	query := `
		INSERT INTO stat_events (performed_by, scored_during, stat_type, points, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.PerformedBy, event.ScoredDuring, event.StatType, event.Points, event.Description,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrStatEventInvalid
		}
		return err
	}
	return nil
}

func (r *postgresStatEventRepository) GetByID(ctx context.Context, id int) (*models.StatEvent, error) {
	return scanStatEvent(r.db.QueryRowContext(ctx, statEventSelect+` WHERE se.id = $1`, id))
}

func (r *postgresStatEventRepository) Update(ctx context.Context, event *models.StatEvent) error {
	query := `
		UPDATE stat_events
		SET performed_by = $1, stat_type = $2, points = $3, description = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		event.PerformedBy, event.StatType, event.Points, event.Description, event.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrStatEventInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrStatEventNotFound)
}

func (r *postgresStatEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stat_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStatEventNotFound)
}

func (r *postgresStatEventRepository) list(ctx context.Context, query string, arg int) ([]*models.StatEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.StatEvent, 0)
	for rows.Next() {
		e, scanErr := scanStatEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresStatEventRepository) ListByGame(ctx context.Context, gameID int) ([]*models.StatEvent, error) {
	return r.list(ctx, statEventSelect+` WHERE se.scored_during = $1 ORDER BY se.created_at ASC, se.id ASC`, gameID)
}

func (r *postgresStatEventRepository) ListByPlayer(ctx context.Context, playerID int) ([]*models.StatEvent, error) {
	return r.list(ctx, statEventSelect+` WHERE se.performed_by = $1 ORDER BY se.created_at DESC, se.id DESC`, playerID)
}

func (r *postgresStatEventRepository) TotalsByPlayer(ctx context.Context, playerID int) ([]models.StatTotal, error) {
	query := `
		SELECT stat_type, COUNT(*), COALESCE(SUM(points), 0)
		FROM stat_events
		WHERE performed_by = $1
		GROUP BY stat_type
		ORDER BY stat_type ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]models.StatTotal, 0)
	for rows.Next() {
		var t models.StatTotal
		if scanErr := rows.Scan(&t.StatType, &t.Count, &t.Points); scanErr != nil {
			return nil, scanErr
		}
		totals = append(totals, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}
