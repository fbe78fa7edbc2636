package scheduler

import (
	"context"
	"log/slog"
	"time"

	"pmdashboard/notification"
	"pmdashboard/services"

	"github.com/robfig/cron/v3"
)

// Reminder notifies project members when a project's due date is near.
type Reminder struct {
	repo       *services.Repository
	notifier   notification.Notifier
	windowDays int
	now        func() time.Time
}

func NewReminder(repo *services.Repository, notifier notification.Notifier, windowDays int) *Reminder {
	return &Reminder{repo: repo, notifier: notifier, windowDays: windowDays, now: time.Now}
}

// Run sends one notification per open project due within the window and
// returns how many were sent. Failed sends are logged and skipped.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	now := r.now()
	projects, err := r.repo.ProjectsDueBetween(ctx, now, now.AddDate(0, 0, r.windowDays))
	if err != nil {
		return 0, err
	}
	sent := 0
	for i := range projects {
		if err := r.notifier.ProjectDueSoon(ctx, &projects[i]); err != nil {
			slog.WarnContext(ctx, "failed to send due date reminder", "project_id", projects[i].ProjectID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// StartScheduler registers the reminder on spec (with a seconds field) and
// starts the cron runner. Stop the returned cron to shut it down.
func StartScheduler(spec string, reminder *Reminder) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		slog.Info("running due date reminder job")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sent, err := reminder.Run(ctx)
		if err != nil {
			slog.Error("due date reminder job failed", "error", err)
			return
		}
		slog.Info("due date reminder job finished", "sent", sent)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	slog.Info("scheduler started", "spec", spec)
	return c, nil
}
