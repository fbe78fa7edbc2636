package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the create/read/update/delete façade over the store. All
// methods classify persistence errors into apperr codes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to one database
// transaction. Returning an error rolls everything back.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Create inserts entity. A unique-index clash returns UniquenessViolation.
func (r *Repository) Create(ctx context.Context, entity any) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
	return classify(fmt.Sprintf("create %s", kindOf(entity)), err)
}

// ReadAll returns every row of kind T ordered by primary key. A positive
// projectID restricts kinds that belong to a project.
func ReadAll[T any](ctx context.Context, r *Repository, projectID int) ([]T, error) {
	var zero T
	q := r.db.WithContext(ctx)
	if ps, ok := any(zero).(model.ProjectScoped); ok && projectID > 0 {
		q = q.Where(ps.ProjectColumn()+" = ?", projectID)
	}
	var rows []T
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}).
		Find(&rows).Error
	if err != nil {
		return nil, classify(fmt.Sprintf("read %s", kindOf(&zero)), err)
	}
	return rows, nil
}

// ReadByID returns the row of kind T with the given key, or nil when absent.
func ReadByID[T any](ctx context.Context, r *Repository, id int) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Sprintf("read %s %d", kindOf(&row), id), err)
	}
	return &row, nil
}

// Update replaces every column of entity. Versioned entities are written only
// when the stored version still matches; the version is bumped on success.
func (r *Repository) Update(ctx context.Context, entity model.Entity) error {
	db := r.db.WithContext(ctx)
	v, ok := entity.(model.Versioned)
	if !ok {
		return classify(fmt.Sprintf("update %s", kindOf(entity)), db.Omit(clause.Associations).Save(entity).Error)
	}

	current := v.GetVersion()
	v.SetVersion(current + 1)
	res := db.Model(entity).
		Where("version = ?", current).
		Select("*").
		Omit(clause.Associations).
		Updates(entity)
	if res.Error != nil {
		v.SetVersion(current)
		return classify(fmt.Sprintf("update %s %d", kindOf(entity), entity.ID()), res.Error)
	}
	if res.RowsAffected == 0 {
		v.SetVersion(current)
		exists, err := r.exists(ctx, entity)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(kindOf(entity), entity.ID())
		}
		return apperr.New(apperr.CodeConflict,
			fmt.Sprintf("%s %d was changed since version %d", kindOf(entity), entity.ID(), current))
	}
	return nil
}

// Delete removes one record. Projects go through DeleteProject so their
// dependents are removed in the same transaction; tasks take their time logs
// with them.
func (r *Repository) Delete(ctx context.Context, entity model.Entity) error {
	switch e := entity.(type) {
	case *model.Project:
		_, err := r.DeleteProject(ctx, e.ProjectID)
		return err
	case *model.Task:
		return r.deleteTask(ctx, e.TaskID)
	case *model.Sprint:
		return r.deleteSprint(ctx, e.SprintID)
	}
	res := r.db.WithContext(ctx).Delete(entity)
	if res.Error != nil {
		return classify(fmt.Sprintf("delete %s %d", kindOf(entity), entity.ID()), res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(kindOf(entity), entity.ID())
	}
	return nil
}

// CascadeResult counts the rows removed by DeleteProject.
type CascadeResult struct {
	TaskIDs  []int `json:"task_ids"`
	Tasks    int64 `json:"tasks"`
	Sprints  int64 `json:"sprints"`
	Risks    int64 `json:"risks"`
	TimeLogs int64 `json:"time_logs"`
}

// DeleteProject removes a project with all of its tasks, sprints, risks and
// the time logs of its tasks in one transaction.
func (r *Repository) DeleteProject(ctx context.Context, projectID int) (*CascadeResult, error) {
	result := &CascadeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("project", projectID)
			}
			return classify("load project", err)
		}

		if err := tx.Model(&model.Task{}).Where("project_id = ?", projectID).
			Order("task_id").Pluck("task_id", &result.TaskIDs).Error; err != nil {
			return classify("list project tasks", err)
		}

		if len(result.TaskIDs) > 0 {
			res := tx.Where("task_id IN ?", result.TaskIDs).Delete(&model.TimeLog{})
			if res.Error != nil {
				return classify("delete time logs", res.Error)
			}
			result.TimeLogs = res.RowsAffected

			// Self references are cleared first so the task rows can go in any order.
			if err := tx.Model(&model.Task{}).Where("dependency_task_id IN ?", result.TaskIDs).
				Update("dependency_task_id", nil).Error; err != nil {
				return classify("clear task dependencies", err)
			}
		}

		res := tx.Where("project_id = ?", projectID).Delete(&model.Task{})
		if res.Error != nil {
			return classify("delete tasks", res.Error)
		}
		result.Tasks = res.RowsAffected

		res = tx.Where("project_id = ?", projectID).Delete(&model.Sprint{})
		if res.Error != nil {
			return classify("delete sprints", res.Error)
		}
		result.Sprints = res.RowsAffected

		res = tx.Where("project_id = ?", projectID).Delete(&model.Risk{})
		if res.Error != nil {
			return classify("delete risks", res.Error)
		}
		result.Risks = res.RowsAffected

		if err := tx.Delete(&project).Error; err != nil {
			return classify("delete project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) deleteTask(ctx context.Context, taskID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.TimeLog{}).Error; err != nil {
			return classify("delete time logs", err)
		}
		if err := tx.Model(&model.Task{}).Where("dependency_task_id = ?", taskID).
			Update("dependency_task_id", nil).Error; err != nil {
			return classify("clear task dependencies", err)
		}
		res := tx.Delete(&model.Task{}, taskID)
		if res.Error != nil {
			return classify("delete task", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("task", taskID)
		}
		return nil
	})
}

func (r *Repository) deleteSprint(ctx context.Context, sprintID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("sprint_id = ?", sprintID).
			Update("sprint_id", nil).Error; err != nil {
			return classify("move sprint tasks to backlog", err)
		}
		res := tx.Delete(&model.Sprint{}, sprintID)
		if res.Error != nil {
			return classify("delete sprint", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("sprint", sprintID)
		}
		return nil
	})
}

func (r *Repository) exists(ctx context.Context, entity model.Entity) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).
		Table(entity.TableName()).
		Where(entity.IDColumn()+" = ?", entity.ID()).
		Count(&n).Error
	if err != nil {
		return false, classify("check existence", err)
	}
	return n > 0, nil
}

// HoursLoggedForTask sums the hours of a task's time logs. No logs is 0.
func (r *Repository) HoursLoggedForTask(ctx context.Context, taskID int) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.TimeLog{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, classify("sum logged hours", err)
	}
	return total, nil
}

// HoursByTask sums logged hours per task for the given tasks. Tasks without
// logs are absent from the map.
func (r *Repository) HoursByTask(ctx context.Context, taskIDs []int) (map[int]float64, error) {
	out := make(map[int]float64, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		TaskID int
		Total  float64
	}
	err := r.db.WithContext(ctx).Model(&model.TimeLog{}).
		Select("task_id, SUM(hours) AS total").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("sum logged hours", err)
	}
	for _, row := range rows {
		out[row.TaskID] = row.Total
	}
	return out, nil
}

// UsersForAssignment maps every username to its user id.
func (r *Repository) UsersForAssignment(ctx context.Context) (map[string]int, error) {
	users, err := ReadAll[model.User](ctx, r, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(users))
	for _, u := range users {
		out[u.Username] = u.UserID
	}
	return out, nil
}

// UserByUsername returns the user with the given name, or nil when absent.
func (r *Repository) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("read user", err)
	}
	return &user, nil
}

// UserIDByUsername returns the id for username, or 0 when absent.
func (r *Repository) UserIDByUsername(ctx context.Context, username string) (int, error) {
	user, err := r.UserByUsername(ctx, username)
	if err != nil || user == nil {
		return 0, err
	}
	return user.UserID, nil
}

// TasksForUser returns the tasks assigned to userID.
func (r *Repository) TasksForUser(ctx context.Context, userID int) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("assigned_to_id = ?", userID).Order("task_id").Find(&tasks).Error; err != nil {
		return nil, classify("read user tasks", err)
	}
	return tasks, nil
}

// TimeLogsDetailed returns every time log with its user, task and project
// loaded.
func (r *Repository) TimeLogsDetailed(ctx context.Context) ([]model.TimeLog, error) {
	var logs []model.TimeLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Task").
		Preload("Task.Project").
		Order("log_id").
		Find(&logs).Error
	if err != nil {
		return nil, classify("read time logs", err)
	}
	return logs, nil
}

// ProjectsDueBetween returns open projects whose due date falls in [from, to].
// Bounds are bound in UTC to match stored dates.
func (r *Repository) ProjectsDueBetween(ctx context.Context, from, to time.Time) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from.UTC(), to.UTC()).
		Where("status NOT IN ?", []model.ProjectStatus{model.ProjectCompleted, model.ProjectArchived}).
		Order("due_date").
		Find(&projects).Error
	if err != nil {
		return nil, classify("read projects due soon", err)
	}
	return projects, nil
}

// CountProjects returns the number of projects.
func (r *Repository) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Count(&n).Error; err != nil {
		return 0, classify("count projects", err)
	}
	return n, nil
}

func kindOf(entity any) string {
	switch entity.(type) {
	case *model.User:
		return "user"
	case *model.Project:
		return "project"
	case *model.Task:
		return "task"
	case *model.Sprint:
		return "sprint"
	case *model.Risk:
		return "risk"
	case *model.TimeLog:
		return "time log"
	default:
		return fmt.Sprintf("%T", entity)
	}
}
