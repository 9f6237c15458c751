package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const (
	reminderJobName    = "team_reminders"
	reminderJobTimeout = 2 * time.Minute
)

// ReminderDeliverer sends the reminders that are due.
type ReminderDeliverer interface {
	DeliverDue(ctx context.Context) (int, error)
}

// RegisterReminderJob schedules delivery of due team reminders.
func RegisterReminderJob(s *Service, deliverer ReminderDeliverer, cronExpr string) error {
	_, err := s.AddJob(reminderJobName, cronExpr, reminderTask(deliverer, s.logger))
	return err
}

func reminderTask(deliverer ReminderDeliverer, logger *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
		defer cancel()

		sent, err := deliverer.DeliverDue(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "reminder job failed", slog.Int("sent", sent), slog.Any("error", err))
			return
		}
		if sent > 0 {
			logger.InfoContext(ctx, "reminders delivered", slog.Int("sent", sent))
		}
	}
}
