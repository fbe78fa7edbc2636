package services

import (
	"context"
	"testing"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleTeamMember}
	require.NoError(t, repo.Create(ctx, first))

	second := &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "y", Role: model.RoleViewer}
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUniquenessViolation)

	users, err := ReadAll[model.User](ctx, repo, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)
}

func TestReadByIDAbsentIsNotAnError(t *testing.T) {
	repo := newTestRepository(t)

	task, err := ReadByID[model.Task](context.Background(), repo, 42)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestReadAllFiltersByProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := &model.Project{Name: "Mobile", Status: model.ProjectPlanning, Priority: model.ProjectPriorityLow, StartDate: time.Now()}
	require.NoError(t, f.repo.Create(ctx, other))

	f.task(t, "A")
	f.task(t, "B")
	f.task(t, "C", func(tk *model.Task) { tk.ProjectID = other.ProjectID })

	all, err := ReadAll[model.Task](ctx, f.repo, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := ReadAll[model.Task](ctx, f.repo, f.project.ProjectID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, "A", scoped[0].Title)
	assert.Equal(t, "B", scoped[1].Title)
}

func TestUpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.task(t, "Draft")

	task.Title = "Final"
	require.NoError(t, f.repo.Update(ctx, task))
	assert.Equal(t, 1, task.Version)

	stored, err := ReadByID[model.Task](ctx, f.repo, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Final", stored.Title)
	assert.Equal(t, 1, stored.Version)
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.task(t, "Shared")

	a, err := ReadByID[model.Task](ctx, f.repo, task.TaskID)
	require.NoError(t, err)
	b, err := ReadByID[model.Task](ctx, f.repo, task.TaskID)
	require.NoError(t, err)

	a.Status = model.TaskInProgress
	require.NoError(t, f.repo.Update(ctx, a))

	b.Status = model.TaskDone
	err = f.repo.Update(ctx, b)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 0, b.Version)

	stored, err := ReadByID[model.Task](ctx, f.repo, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, stored.Status)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	f := newFixture(t)
	ghost := &model.Risk{RiskID: 99, Name: "ghost", Probability: model.LevelLow, Impact: model.LevelLow, Status: model.RiskOpen, ProjectID: f.project.ProjectID}

	err := f.repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUniqueClash(t *testing.T) {
	f := newFixture(t)
	f.member.Email = f.admin.Email

	err := f.repo.Update(context.Background(), f.member)
	assert.ErrorIs(t, err, apperr.ErrUniquenessViolation)
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := &model.Project{Name: "Keep", Status: model.ProjectPlanning, Priority: model.ProjectPriorityLow, StartDate: time.Now()}
	require.NoError(t, f.repo.Create(ctx, other))
	kept := f.task(t, "Keep me", func(tk *model.Task) { tk.ProjectID = other.ProjectID })

	s1 := f.sprint(t, "S1", model.SprintActive)
	f.sprint(t, "S2", model.SprintPlanning)
	a := f.task(t, "A", func(tk *model.Task) { tk.SprintID = &s1.SprintID })
	b := f.task(t, "B", func(tk *model.Task) { tk.DependencyTaskID = &a.TaskID })
	f.task(t, "C", func(tk *model.Task) { tk.DependencyTaskID = &b.TaskID })
	require.NoError(t, f.repo.Create(ctx, &model.Risk{Name: "R", Probability: model.LevelHigh, Impact: model.LevelLow, Status: model.RiskOpen, ProjectID: f.project.ProjectID}))
	require.NoError(t, f.repo.Create(ctx, &model.TimeLog{Hours: 2, LogDate: time.Now(), TaskID: a.TaskID, UserID: f.member.UserID}))
	require.NoError(t, f.repo.Create(ctx, &model.TimeLog{Hours: 1, LogDate: time.Now(), TaskID: kept.TaskID, UserID: f.member.UserID}))

	res, err := f.repo.DeleteProject(ctx, f.project.ProjectID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Tasks)
	assert.EqualValues(t, 2, res.Sprints)
	assert.EqualValues(t, 1, res.Risks)
	assert.EqualValues(t, 1, res.TimeLogs)
	assert.Len(t, res.TaskIDs, 3)

	gone, err := ReadByID[model.Project](ctx, f.repo, f.project.ProjectID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	tasks, err := ReadAll[model.Task](ctx, f.repo, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, kept.TaskID, tasks[0].TaskID)

	sprints, err := ReadAll[model.Sprint](ctx, f.repo, 0)
	require.NoError(t, err)
	assert.Empty(t, sprints)

	logs, err := ReadAll[model.TimeLog](ctx, f.repo, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, kept.TaskID, logs[0].TaskID)
}

func TestDeleteProjectMissing(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.DeleteProject(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteRoutesProjectToCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.task(t, "A")

	require.NoError(t, f.repo.Delete(ctx, f.project))

	tasks, err := ReadAll[model.Task](ctx, f.repo, 0)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteSprintReturnsTasksToBacklog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.sprint(t, "S", model.SprintActive)
	task := f.task(t, "A", func(tk *model.Task) { tk.SprintID = &s.SprintID })

	require.NoError(t, f.repo.Delete(ctx, s))

	stored, err := ReadByID[model.Task](ctx, f.repo, task.TaskID)
	require.NoError(t, err)
	assert.True(t, stored.InBacklog())
}

func TestDeleteMissingRisk(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.Delete(context.Background(), &model.Risk{RiskID: 3})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHoursLoggedForTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.task(t, "A")
	b := f.task(t, "B")

	hours, err := f.repo.HoursLoggedForTask(ctx, a.TaskID)
	require.NoError(t, err)
	assert.Zero(t, hours)

	for _, h := range []float64{1.5, 2.25} {
		require.NoError(t, f.repo.Create(ctx, &model.TimeLog{Hours: h, LogDate: time.Now(), TaskID: a.TaskID, UserID: f.member.UserID}))
	}
	hours, err = f.repo.HoursLoggedForTask(ctx, a.TaskID)
	require.NoError(t, err)
	assert.InDelta(t, 3.75, hours, 1e-9)

	byTask, err := f.repo.HoursByTask(ctx, []int{a.TaskID, b.TaskID})
	require.NoError(t, err)
	assert.InDelta(t, 3.75, byTask[a.TaskID], 1e-9)
	assert.NotContains(t, byTask, b.TaskID)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	users, err := f.repo.UsersForAssignment(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.member.UserID, users["member"])
	assert.Len(t, users, 4)

	id, err := f.repo.UserIDByUsername(ctx, "manager")
	require.NoError(t, err)
	assert.Equal(t, f.manager.UserID, id)

	id, err = f.repo.UserIDByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestTasksForUserAndDetailedLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.task(t, "Mine")
	f.task(t, "Theirs", func(tk *model.Task) { tk.AssignedToID = f.admin.UserID })
	require.NoError(t, f.repo.Create(ctx, &model.TimeLog{Hours: 1, LogDate: time.Now(), TaskID: a.TaskID, UserID: f.member.UserID}))

	tasks, err := f.repo.TasksForUser(ctx, f.member.UserID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Mine", tasks[0].Title)

	logs, err := f.repo.TimeLogsDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].User)
	require.NotNil(t, logs[0].Task)
	require.NotNil(t, logs[0].Task.Project)
	assert.Equal(t, "member", logs[0].User.Username)
	assert.Equal(t, "Website", logs[0].Task.Project.Name)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.repo.Transaction(ctx, func(tx *Repository) error {
		if err := tx.Create(ctx, &model.Risk{Name: "R", Probability: model.LevelLow, Impact: model.LevelLow, Status: model.RiskOpen, ProjectID: f.project.ProjectID}); err != nil {
			return err
		}
		return apperr.New(apperr.CodeInvalidInput, "abort")
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	risks, err := ReadAll[model.Risk](ctx, f.repo, 0)
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestProjectsDueBetweenAcrossZones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bangkok := time.FixedZone("ICT", 7*60*60)

	// 2026-05-10 01:00 +07:00 is 2026-05-09 18:00 UTC.
	due := time.Date(2026, 5, 10, 1, 0, 0, 0, bangkok)
	release := &model.Project{
		Name: "Release", Status: model.ProjectInProgress, Priority: model.ProjectPriorityHigh,
		StartDate: due.AddDate(0, -1, 0), DueDate: &due, ManagerID: f.manager.UserID,
	}
	require.NoError(t, f.repo.Create(ctx, release))

	from := time.Date(2026, 5, 9, 17, 0, 0, 0, time.UTC)
	got, err := f.repo.ProjectsDueBetween(ctx, from, from.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, release.ProjectID, got[0].ProjectID)
	assert.True(t, due.Equal(*got[0].DueDate))

	got, err = f.repo.ProjectsDueBetween(ctx, from.In(bangkok), from.Add(2*time.Hour).In(bangkok))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = f.repo.ProjectsDueBetween(ctx, from.Add(2*time.Hour), from.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}
