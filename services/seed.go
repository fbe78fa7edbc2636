package services

import (
	"context"
	"log/slog"
	"time"

	"pmdashboard/model"
)

// SeedResult reports what Seed created.
type SeedResult struct {
	Users    []string `json:"users"`
	Projects int      `json:"projects"`
}

type seedAccount struct {
	key      string
	username string
	email    string
	role     model.Role
}

var seedAccounts = []seedAccount{
	{"admin", "admin", "admin@tool.com", model.RoleAdmin},
	{"manager", "manager", "manager@tool.com", model.RoleProjectManager},
	{"member", "member", "member@tool.com", model.RoleTeamMember},
}

// Seed creates the demo accounts and, when no project exists yet, the demo
// projects with a sprint, tasks, a risk and a time log. Running it again
// changes nothing.
func Seed(ctx context.Context, repo *Repository, auth *Authenticator, passwords map[string]string, now time.Time) (*SeedResult, error) {
	res := &SeedResult{Users: []string{}}
	ids := map[string]int{}

	for _, acc := range seedAccounts {
		existing, err := repo.UserByUsername(ctx, acc.username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ids[acc.key] = existing.UserID
			continue
		}
		hash, err := auth.HashPassword(passwords[acc.key])
		if err != nil {
			return nil, err
		}
		user := &model.User{Username: acc.username, Email: acc.email, PasswordHash: hash, Role: acc.role}
		if err := repo.Create(ctx, user); err != nil {
			return nil, err
		}
		ids[acc.key] = user.UserID
		res.Users = append(res.Users, acc.username)
	}

	count, err := repo.CountProjects(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return res, nil
	}

	err = repo.Transaction(ctx, func(tx *Repository) error {
		coreDue := now.AddDate(0, 0, 90)
		core := &model.Project{
			Name:        "Tool Core Development",
			Description: "Develop the core features and database.",
			Category:    "Software",
			Status:      model.ProjectInProgress,
			Priority:    model.ProjectPriorityHigh,
			StartDate:   now,
			DueDate:     &coreDue,
			ManagerID:   ids["manager"],
		}
		marketingDue := now.AddDate(0, 0, 45)
		marketing := &model.Project{
			Name:        "Q4 Marketing Strategy",
			Description: "Plan and execute holiday marketing campaign.",
			Category:    "Marketing",
			Status:      model.ProjectPlanning,
			Priority:    model.ProjectPriorityMedium,
			StartDate:   now,
			DueDate:     &marketingDue,
			ManagerID:   ids["admin"],
		}
		for _, p := range []*model.Project{core, marketing} {
			if err := tx.Create(ctx, p); err != nil {
				return err
			}
		}

		sprint := &model.Sprint{Name: "Sprint 1: Auth & DB", StartDate: now, EndDate: now.AddDate(0, 0, 14), Status: model.SprintActive, ProjectID: core.ProjectID}
		if err := tx.Create(ctx, sprint); err != nil {
			return err
		}

		schema := &model.Task{Title: "Design Database Schema", Status: model.TaskDone, Priority: model.TaskPriorityHigh, EstimateHours: 12, ProjectID: core.ProjectID, AssignedToID: ids["admin"]}
		if err := tx.Create(ctx, schema); err != nil {
			return err
		}
		kanban := &model.Task{Title: "Implement Kanban View", Status: model.TaskInProgress, Priority: model.TaskPriorityUrgent, EstimateHours: 8,
			ProjectID: core.ProjectID, AssignedToID: ids["member"], SprintID: &sprint.SprintID, DependencyTaskID: &schema.TaskID}
		if err := tx.Create(ctx, kanban); err != nil {
			return err
		}
		userTesting := &model.Task{Title: "Launch User Testing Phase 1", Status: model.TaskToDo, Priority: model.TaskPriorityHigh, EstimateHours: 20, ProjectID: marketing.ProjectID, AssignedToID: ids["manager"]}
		if err := tx.Create(ctx, userTesting); err != nil {
			return err
		}

		risk := &model.Risk{
			Name:           "Database Migration Failure",
			Description:    "Risk of data loss during production database switch.",
			Probability:    model.LevelHigh,
			Impact:         model.LevelHigh,
			MitigationPlan: "Perform dry run migration and full backup.",
			Status:         model.RiskOpen,
			ProjectID:      core.ProjectID,
			OwnerID:        ids["admin"],
		}
		if err := tx.Create(ctx, risk); err != nil {
			return err
		}
		return tx.Create(ctx, &model.TimeLog{Hours: 4.5, LogDate: now, TaskID: schema.TaskID, UserID: ids["admin"]})
	})
	if err != nil {
		return nil, err
	}
	res.Projects = 2
	slog.InfoContext(ctx, "demo data seeded", "users", res.Users, "projects", res.Projects)
	return res, nil
}
