package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/intramural-stats/models"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrReminderInvalid  = errors.New("reminder team or game invalid")
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	ListByTeam(ctx context.Context, teamID int) ([]*models.Reminder, error)
	// ListDue returns unsent reminders whose remind_at is not after now,
	// oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Reminder, error)
	MarkSent(ctx context.Context, id int, sentAt time.Time) error
	ListRecipientEmails(ctx context.Context, teamID int) ([]string, error)
}

type postgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) ReminderRepository {
	return &postgresReminderRepository{db: db}
}

const reminderColumns = `id, team_id, game_id, message, remind_at, sent_at, created_at`

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var rem models.Reminder
	var gameID sql.NullInt64
	var sentAt sql.NullTime
	err := row.Scan(&rem.ID, &rem.TeamID, &gameID, &rem.Message, &rem.RemindAt, &sentAt, &rem.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	rem.GameID = nullIntPtr(gameID)
	if sentAt.Valid {
		t := sentAt.Time
		rem.SentAt = &t
	}
	return &rem, nil
}

func (r *postgresReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (team_id, game_id, message, remind_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reminder.TeamID, reminder.GameID, reminder.Message, reminder.RemindAt,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReminderInvalid
		}
		return err
	}
	return nil
}

func (r *postgresReminderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]*models.Reminder, 0)
	for rows.Next() {
		rem, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		reminders = append(reminders, rem)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *postgresReminderRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE team_id = $1 ORDER BY remind_at ASC, id ASC`
	return r.list(ctx, query, teamID)
}

func (r *postgresReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE sent_at IS NULL AND remind_at <= $1
		ORDER BY remind_at ASC, id ASC
		LIMIT $2`
	return r.list(ctx, query, now, limit)
}

func (r *postgresReminderRepository) MarkSent(ctx context.Context, id int, sentAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET sent_at = $1 WHERE id = $2 AND sent_at IS NULL`, sentAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReminderNotFound)
}

func (r *postgresReminderRepository) ListRecipientEmails(ctx context.Context, teamID int) ([]string, error) {
	query := `
		SELECT p.email
		FROM player_teams pt
		JOIN players p ON p.id = pt.player_id
		WHERE pt.team_id = $1
		ORDER BY p.email ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if scanErr := rows.Scan(&email); scanErr != nil {
			return nil, scanErr
		}
		emails = append(emails, email)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}
