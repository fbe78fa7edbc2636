package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"
	"pmdashboard/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	views := NewViews(f.repo)
	s := f.sprint(t, "S1", model.SprintCompleted)
	a := f.task(t, "A", func(tk *model.Task) { tk.Status = model.TaskDone; tk.SprintID = &s.SprintID })
	f.task(t, "B", func(tk *model.Task) { tk.DependencyTaskID = &a.TaskID })
	require.NoError(t, f.repo.Create(ctx, &model.TimeLog{Hours: 2, LogDate: time.Now(), TaskID: a.TaskID, UserID: f.member.UserID}))

	detail, err := views.Project(ctx, f.project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, report.Progress{Done: 1, Total: 2, Percent: 50}, detail.Progress)

	cols, err := views.Kanban(ctx, f.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, cols[3].Cards, 1)
	assert.InDelta(t, 0.5, cols[3].Cards[0].Progress, 1e-9)

	backlog, err := views.Backlog(ctx, f.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, backlog, 1)
	assert.Equal(t, "B", backlog[0].Title)

	forest, err := views.WBS(ctx, f.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Len(t, forest[0].Children, 1)

	sprints, err := views.Sprints(ctx, f.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, sprints, 1)
	assert.Equal(t, 1, sprints[0].Progress.Done)

	velocity, err := views.Velocity(ctx)
	require.NoError(t, err)
	require.Len(t, velocity, 1)
	assert.Equal(t, 4.0, velocity[0].Velocity)
	assert.Equal(t, "Website", velocity[0].Project)

	hours, err := views.TaskHours(ctx, a.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, hours.LoggedHours)

	weekly, err := views.WeeklyHours(ctx)
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "member", weekly[0].Username)

	kpis, err := views.Dashboard(ctx, session(f.member))
	require.NoError(t, err)
	assert.Equal(t, 1, kpis.MyOpenTasks)
	assert.Equal(t, 1, kpis.MyDoneTasks)
}

func TestProjectViewsMissingProject(t *testing.T) {
	views := NewViews(newTestRepository(t))
	_, err := views.Kanban(context.Background(), 12)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = views.Risks(context.Background(), 12)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExportFromStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	views := NewViews(f.repo)

	var buf bytes.Buffer
	require.NoError(t, views.Export(ctx, &buf, report.KindUsers))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.NotContains(t, buf.String(), "$2a$")
}
