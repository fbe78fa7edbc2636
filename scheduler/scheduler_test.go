package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pmdashboard/config"
	"pmdashboard/connection"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dueRecorder struct {
	projects []int
	failFor  int
}

func (d *dueRecorder) TaskAssigned(context.Context, *model.Task) error { return nil }

func (d *dueRecorder) ProjectDueSoon(_ context.Context, p *model.Project) error {
	if p.ProjectID == d.failFor {
		return errors.New("fcm unavailable")
	}
	d.projects = append(d.projects, p.ProjectID)
	return nil
}

func TestReminderRun(t *testing.T) {
	ctx := context.Background()
	db, err := connection.DBConnection(&config.Config{DBDriver: "sqlite", DBDSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	repo := services.NewRepository(db)

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	mk := func(name string, status model.ProjectStatus, dueIn int) *model.Project {
		p := &model.Project{Name: name, Status: status, Priority: model.ProjectPriorityMedium, StartDate: now.AddDate(0, -1, 0)}
		if dueIn >= 0 {
			due := now.AddDate(0, 0, dueIn)
			p.DueDate = &due
		}
		require.NoError(t, repo.Create(ctx, p))
		return p
	}
	soon := mk("soon", model.ProjectInProgress, 2)
	later := mk("later", model.ProjectInProgress, 2)
	mk("far", model.ProjectInProgress, 10)
	mk("done", model.ProjectCompleted, 1)
	mk("undated", model.ProjectPlanning, -1)

	rec := &dueRecorder{failFor: later.ProjectID}
	r := NewReminder(repo, rec, 3)
	r.now = func() time.Time { return now }

	sent, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int{soon.ProjectID}, rec.projects)
}

func TestStartSchedulerRejectsBadSpec(t *testing.T) {
	_, err := StartScheduler("every day", NewReminder(nil, nil, 3))
	assert.Error(t, err)
}

func TestStartSchedulerStops(t *testing.T) {
	c, err := StartScheduler("0 0 8 * * *", NewReminder(nil, nil, 3))
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
