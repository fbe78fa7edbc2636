package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pmdashboard/config"
	"pmdashboard/connection"
	"pmdashboard/model"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	cfg := &config.Config{DBDriver: "sqlite", DBDSN: filepath.Join(t.TempDir(), "test.db")}
	db, err := connection.DBConnection(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepository(db)
}

type fixture struct {
	repo    *Repository
	admin   *model.User
	manager *model.User
	member  *model.User
	viewer  *model.User
	project *model.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepository(t)
	f := &fixture{repo: repo}

	mk := func(name string, role model.Role) *model.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(name+"pass"), bcrypt.MinCost)
		require.NoError(t, err)
		u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: string(hash), Role: role}
		require.NoError(t, repo.Create(ctx, u))
		return u
	}
	f.admin = mk("admin", model.RoleAdmin)
	f.manager = mk("manager", model.RoleProjectManager)
	f.member = mk("member", model.RoleTeamMember)
	f.viewer = mk("viewer", model.RoleViewer)

	f.project = &model.Project{
		Name:      "Website",
		Status:    model.ProjectInProgress,
		Priority:  model.ProjectPriorityHigh,
		StartDate: time.Now(),
		ManagerID: f.manager.UserID,
	}
	require.NoError(t, repo.Create(ctx, f.project))
	return f
}

func (f *fixture) task(t *testing.T, title string, mutate ...func(*model.Task)) *model.Task {
	t.Helper()
	task := &model.Task{
		Title:         title,
		Status:        model.TaskToDo,
		Priority:      model.TaskPriorityMedium,
		EstimateHours: 4,
		ProjectID:     f.project.ProjectID,
		AssignedToID:  f.member.UserID,
	}
	for _, m := range mutate {
		m(task)
	}
	require.NoError(t, f.repo.Create(context.Background(), task))
	return task
}

func (f *fixture) sprint(t *testing.T, name string, status model.SprintStatus) *model.Sprint {
	t.Helper()
	start := time.Now()
	s := &model.Sprint{Name: name, StartDate: start, EndDate: start.AddDate(0, 0, 14), Status: status, ProjectID: f.project.ProjectID}
	require.NoError(t, f.repo.Create(context.Background(), s))
	return s
}

func session(u *model.User) model.Session {
	return model.Session{UserID: u.UserID, Username: u.Username, Role: u.Role}
}

func intPtr(v int) *int { return &v }
