package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDeliverer struct {
	calls atomic.Int32
	sent  int
	err   error
}

func (f *fakeDeliverer) DeliverDue(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline on the job context")
	}
	return f.sent, f.err
}

func TestAddJobValidatesInput(t *testing.T) {
	svc, err := New(discardLogger())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob(" ", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("job", "", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestNilServiceIsNotInitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.AddJob("job", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRegisterReminderJob(t *testing.T) {
	svc, err := New(discardLogger())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	if err := RegisterReminderJob(svc, &fakeDeliverer{}, "* * * * *"); err != nil {
		t.Fatalf("register: %v", err)
	}
	jobs := svc.scheduler.Jobs()
	if len(jobs) != 1 || jobs[0].Name() != "team_reminders" {
		t.Fatalf("unexpected jobs %v", jobs)
	}
}

func TestReminderTaskCallsDeliverer(t *testing.T) {
	for _, tc := range []struct {
		name string
		d    *fakeDeliverer
	}{
		{"success", &fakeDeliverer{sent: 2}},
		{"failure", &fakeDeliverer{err: errors.New("db down")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reminderTask(tc.d, discardLogger())()
			if got := tc.d.calls.Load(); got != 1 {
				t.Fatalf("expected 1 call, got %d", got)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, err := New(discardLogger())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
