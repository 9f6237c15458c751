package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

const (
	maxReminderLength = 1000
	reminderBatchSize = 100
)

type ReminderService interface {
	CreateReminder(ctx context.Context, teamID int, input CreateReminderInput) (*models.Reminder, error)
	ListReminders(ctx context.Context, teamID int) ([]*models.Reminder, error)
	// DeliverDue sends every reminder that is due and returns how many
	// went out. A failed delivery stays unsent and is retried next run.
	DeliverDue(ctx context.Context) (int, error)
}

type CreateReminderInput struct {
	GameID   *int      `json:"game_id"`
	Message  string    `json:"message"`
	RemindAt time.Time `json:"remind_at"`
}

type reminderService struct {
	reminderRepo repositories.ReminderRepository
	teamRepo     repositories.TeamRepository
	gameRepo     repositories.GameRepository
	notifier     Notifier
	metrics      *metrics.Recorder
	logger       *slog.Logger
	now          Clock
}

func NewReminderService(
	reminderRepo repositories.ReminderRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	notifier Notifier,
	rec *metrics.Recorder,
	logger *slog.Logger,
	clock Clock,
) ReminderService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	if clock == nil {
		clock = systemClock
	}
	return &reminderService{
		reminderRepo: reminderRepo,
		teamRepo:     teamRepo,
		gameRepo:     gameRepo,
		notifier:     notifier,
		metrics:      rec,
		logger:       logger,
		now:          clock,
	}
}

func (s *reminderService) loadTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *reminderService) CreateReminder(ctx context.Context, teamID int, input CreateReminderInput) (*models.Reminder, error) {
	message := strings.TrimSpace(input.Message)
	switch {
	case message == "":
		return nil, validationError("message is required")
	case len(message) > maxReminderLength:
		return nil, validationError(fmt.Sprintf("message must be at most %d characters", maxReminderLength))
	case input.RemindAt.IsZero():
		return nil, validationError("remind_at is required")
	}

	if _, err := s.loadTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if input.GameID != nil {
		game, err := s.gameRepo.GetByID(ctx, nil, *input.GameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return nil, ErrGameNotFound
			}
			return nil, fmt.Errorf("failed to get game %d: %w", *input.GameID, err)
		}
		plays := (game.HomeTeamID != nil && *game.HomeTeamID == teamID) ||
			(game.AwayTeamID != nil && *game.AwayTeamID == teamID)
		if !plays {
			return nil, validationError("the team does not play in this game")
		}
	}

	reminder := &models.Reminder{
		TeamID:   teamID,
		GameID:   input.GameID,
		Message:  message,
		RemindAt: input.RemindAt.UTC(),
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		if errors.Is(err, repositories.ErrReminderInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

func (s *reminderService) ListReminders(ctx context.Context, teamID int) ([]*models.Reminder, error) {
	if _, err := s.loadTeam(ctx, teamID); err != nil {
		return nil, err
	}
	reminders, err := s.reminderRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders for team %d: %w", teamID, err)
	}
	return reminders, nil
}

func (s *reminderService) DeliverDue(ctx context.Context) (int, error) {
	due, err := s.reminderRepo.ListDue(ctx, s.now(), reminderBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load due reminders: %w", err)
	}

	sent := 0
	for _, rem := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		err := s.deliver(ctx, rem)
		s.metrics.RecordReminderDelivery(err)
		if err != nil {
			s.logger.WarnContext(ctx, "reminder delivery failed",
				slog.Int("reminder_id", rem.ID), slog.Int("team_id", rem.TeamID), slog.Any("error", err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *reminderService) deliver(ctx context.Context, rem *models.Reminder) error {
	team, err := s.loadTeam(ctx, rem.TeamID)
	if err != nil {
		return err
	}
	recipients, err := s.reminderRepo.ListRecipientEmails(ctx, rem.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}

	subject := fmt.Sprintf("Reminder from %s", team.Name)
	if err := s.notifier.Notify(ctx, recipients, subject, rem.Message); err != nil {
		return err
	}
	if err := s.reminderRepo.MarkSent(ctx, rem.ID, s.now()); err != nil && !errors.Is(err, repositories.ErrReminderNotFound) {
		return fmt.Errorf("failed to mark reminder %d sent: %w", rem.ID, err)
	}
	return nil
}
