package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"
	"pmdashboard/notification"
	"pmdashboard/report"
)

// AnyVersion skips the caller's version check. The store still guards the
// write against concurrent updates.
const AnyVersion = -1

// MaxHoursPerLog bounds a single time log entry.
const MaxHoursPerLog = 24

// Workflow implements the state-changing operations. Every operation takes the
// acting session explicitly and checks its role before touching the store.
type Workflow struct {
	repo     *Repository
	mirror   notification.Mirror
	notifier notification.Notifier
	now      func() time.Time
}

func NewWorkflow(repo *Repository, mirror notification.Mirror, notifier notification.Notifier) *Workflow {
	if mirror == nil {
		mirror = notification.Nop{}
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Workflow{repo: repo, mirror: mirror, notifier: notifier, now: time.Now}
}

// Advance moves a task to status and logs hours against it for the actor.
// Both writes commit together or not at all.
func (w *Workflow) Advance(ctx context.Context, actor model.Session, taskID int, status model.TaskStatus, hours float64, version int) (*model.Task, error) {
	if err := requireRole(actor, model.Editors...); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("invalid task status %q", status)
	}
	if math.IsNaN(hours) || hours < 0 || hours > MaxHoursPerLog {
		return nil, invalid("hours must be between 0 and %d", MaxHoursPerLog)
	}

	var task *model.Task
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		task, err = loadVersioned[model.Task](ctx, tx, "task", taskID, version)
		if err != nil {
			return err
		}
		if hours > 0 {
			entry := &model.TimeLog{Hours: hours, LogDate: w.now(), TaskID: task.TaskID, UserID: actor.UserID}
			if err := tx.Create(ctx, entry); err != nil {
				return err
			}
		}
		task.Status = status
		return tx.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task advanced", "task_id", task.TaskID, "status", status, "hours", hours, "user_id", actor.UserID)
	w.syncTask(ctx, task)
	return task, nil
}

// TaskInput carries the editable fields of a task. Nil or zero sprint and
// dependency ids mean none.
type TaskInput struct {
	Title            string
	Description      string
	Status           model.TaskStatus
	Priority         model.TaskPriority
	EstimateHours    float64
	ProjectID        int
	SprintID         *int
	DependencyTaskID *int
	AssignedToID     int
}

// normalize fills an empty status or priority from the given fallbacks and
// validates the rest.
func (in *TaskInput) normalize(status model.TaskStatus, priority model.TaskPriority) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("task title is required")
	}
	if in.Status == "" {
		in.Status = status
	}
	if !in.Status.Valid() {
		return invalid("invalid task status %q", in.Status)
	}
	if in.Priority == "" {
		in.Priority = priority
	}
	if !in.Priority.Valid() {
		return invalid("invalid task priority %q", in.Priority)
	}
	if math.IsNaN(in.EstimateHours) || in.EstimateHours < 0 {
		return invalid("estimate must not be negative")
	}
	in.SprintID = nonZero(in.SprintID)
	in.DependencyTaskID = nonZero(in.DependencyTaskID)
	return nil
}

// CreateTask adds a task to a project and notifies its assignee.
func (w *Workflow) CreateTask(ctx context.Context, actor model.Session, in TaskInput) (*model.Task, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	if err := in.normalize(model.TaskToDo, model.TaskPriorityMedium); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:            in.Title,
		Description:      in.Description,
		Status:           in.Status,
		Priority:         in.Priority,
		EstimateHours:    in.EstimateHours,
		ProjectID:        in.ProjectID,
		SprintID:         in.SprintID,
		DependencyTaskID: in.DependencyTaskID,
		AssignedToID:     in.AssignedToID,
	}
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		if err := checkTaskRefs(ctx, tx, task); err != nil {
			return err
		}
		return tx.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task created", "task_id", task.TaskID, "project_id", task.ProjectID, "user_id", actor.UserID)
	w.syncTask(ctx, task)
	w.notifyAssigned(ctx, task)
	return task, nil
}

// UpdateTaskDetails replaces the editable fields of a task. An empty status
// or priority keeps the stored one. The task may not move to another project.
func (w *Workflow) UpdateTaskDetails(ctx context.Context, actor model.Session, taskID int, in TaskInput, version int) (*model.Task, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}

	var task *model.Task
	var reassigned bool
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		task, err = loadVersioned[model.Task](ctx, tx, "task", taskID, version)
		if err != nil {
			return err
		}
		if in.ProjectID != 0 && in.ProjectID != task.ProjectID {
			return invalid("task %d cannot move to another project", taskID)
		}
		if err := in.normalize(task.Status, task.Priority); err != nil {
			return err
		}
		reassigned = task.AssignedToID != in.AssignedToID

		task.Title = in.Title
		task.Description = in.Description
		task.Status = in.Status
		task.Priority = in.Priority
		task.EstimateHours = in.EstimateHours
		task.SprintID = in.SprintID
		task.DependencyTaskID = in.DependencyTaskID
		task.AssignedToID = in.AssignedToID
		if err := checkTaskRefs(ctx, tx, task); err != nil {
			return err
		}
		return tx.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task updated", "task_id", task.TaskID, "user_id", actor.UserID)
	w.syncTask(ctx, task)
	if reassigned {
		w.notifyAssigned(ctx, task)
	}
	return task, nil
}

// AssignSprint moves a task into a sprint of its project. sprintID 0 returns
// it to the backlog.
func (w *Workflow) AssignSprint(ctx context.Context, actor model.Session, taskID, sprintID, version int) (*model.Task, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}

	var task *model.Task
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		task, err = loadVersioned[model.Task](ctx, tx, "task", taskID, version)
		if err != nil {
			return err
		}
		task.SprintID = nonZero(&sprintID)
		if err := checkSprintRef(ctx, tx, task); err != nil {
			return err
		}
		return tx.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task sprint assigned", "task_id", taskID, "sprint_id", sprintID, "user_id", actor.UserID)
	w.syncTask(ctx, task)
	return task, nil
}

// SetDependency makes taskID depend on dependsOnID. dependsOnID 0 clears the
// link. Self-loops, links across projects and links closing a cycle are
// rejected.
func (w *Workflow) SetDependency(ctx context.Context, actor model.Session, taskID, dependsOnID, version int) (*model.Task, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	if dependsOnID != 0 && taskID == dependsOnID {
		return nil, &report.CycleError{Path: []int{taskID, taskID}}
	}

	var task *model.Task
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		task, err = loadVersioned[model.Task](ctx, tx, "task", taskID, version)
		if err != nil {
			return err
		}
		task.DependencyTaskID = nonZero(&dependsOnID)
		if err := checkDependencyRef(ctx, tx, task); err != nil {
			return err
		}
		return tx.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task dependency set", "task_id", taskID, "depends_on", dependsOnID, "user_id", actor.UserID)
	w.syncTask(ctx, task)
	return task, nil
}

// SprintInput carries the fields of a new sprint.
type SprintInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    model.SprintStatus
	ProjectID int
}

// CreateSprint adds a sprint to a project.
func (w *Workflow) CreateSprint(ctx context.Context, actor model.Session, in SprintInput) (*model.Sprint, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("sprint name is required")
	}
	if in.Status == "" {
		in.Status = model.SprintPlanning
	}
	if !in.Status.Valid() {
		return nil, invalid("invalid sprint status %q", in.Status)
	}
	if in.StartDate.IsZero() {
		in.StartDate = w.now()
	}
	if in.EndDate.IsZero() {
		in.EndDate = in.StartDate.AddDate(0, 0, 14)
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, invalid("sprint end date must not be before its start date")
	}

	sprint := &model.Sprint{Name: in.Name, StartDate: in.StartDate, EndDate: in.EndDate, Status: in.Status, ProjectID: in.ProjectID}
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		if err := mustExist[model.Project](ctx, tx, "project", in.ProjectID); err != nil {
			return err
		}
		return tx.Create(ctx, sprint)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "sprint created", "sprint_id", sprint.SprintID, "project_id", sprint.ProjectID, "user_id", actor.UserID)
	return sprint, nil
}

// UpdateSprintStatus moves a sprint through Planning, Active and Completed.
func (w *Workflow) UpdateSprintStatus(ctx context.Context, actor model.Session, sprintID int, status model.SprintStatus, version int) (*model.Sprint, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("invalid sprint status %q", status)
	}

	var sprint *model.Sprint
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		sprint, err = loadVersioned[model.Sprint](ctx, tx, "sprint", sprintID, version)
		if err != nil {
			return err
		}
		sprint.Status = status
		return tx.Update(ctx, sprint)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "sprint status updated", "sprint_id", sprintID, "status", status, "user_id", actor.UserID)
	return sprint, nil
}

// RiskInput carries the fields of a new risk.
type RiskInput struct {
	Name           string
	Description    string
	Probability    model.Level
	Impact         model.Level
	MitigationPlan string
	ProjectID      int
	OwnerID        int
}

// CreateRisk registers a risk against a project. New risks are Open.
func (w *Workflow) CreateRisk(ctx context.Context, actor model.Session, in RiskInput) (*model.Risk, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("risk name is required")
	}
	if !in.Probability.Valid() {
		return nil, invalid("invalid probability %q", in.Probability)
	}
	if !in.Impact.Valid() {
		return nil, invalid("invalid impact %q", in.Impact)
	}
	if in.OwnerID == 0 {
		in.OwnerID = actor.UserID
	}

	risk := &model.Risk{
		Name:           in.Name,
		Description:    in.Description,
		Probability:    in.Probability,
		Impact:         in.Impact,
		MitigationPlan: in.MitigationPlan,
		Status:         model.RiskOpen,
		ProjectID:      in.ProjectID,
		OwnerID:        in.OwnerID,
	}
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		if err := mustExist[model.Project](ctx, tx, "project", in.ProjectID); err != nil {
			return err
		}
		if err := mustExist[model.User](ctx, tx, "user", in.OwnerID); err != nil {
			return err
		}
		return tx.Create(ctx, risk)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "risk registered", "risk_id", risk.RiskID, "project_id", risk.ProjectID, "user_id", actor.UserID)
	return risk, nil
}

// UpdateRisk sets the mitigation plan and status. Any status may follow any
// other.
func (w *Workflow) UpdateRisk(ctx context.Context, actor model.Session, riskID int, mitigation string, status model.RiskStatus, version int) (*model.Risk, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("invalid risk status %q", status)
	}

	var risk *model.Risk
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		risk, err = loadVersioned[model.Risk](ctx, tx, "risk", riskID, version)
		if err != nil {
			return err
		}
		risk.MitigationPlan = mitigation
		risk.Status = status
		return tx.Update(ctx, risk)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "risk updated", "risk_id", riskID, "status", status, "user_id", actor.UserID)
	return risk, nil
}

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	Category    string
	Status      model.ProjectStatus
	Priority    model.ProjectPriority
	StartDate   time.Time
	DueDate     *time.Time
	ManagerID   int
}

func (in *ProjectInput) normalize(actor model.Session, now time.Time) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("project name is required")
	}
	if in.Category == "" {
		in.Category = "Software"
	}
	if in.Status == "" {
		in.Status = model.ProjectPlanning
	}
	if !in.Status.Valid() {
		return invalid("invalid project status %q", in.Status)
	}
	if in.Priority == "" {
		in.Priority = model.ProjectPriorityMedium
	}
	if !in.Priority.Valid() {
		return invalid("invalid project priority %q", in.Priority)
	}
	if in.StartDate.IsZero() {
		in.StartDate = now
	}
	in.StartDate = in.StartDate.UTC()
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		in.DueDate = &due
	}
	if in.DueDate != nil && in.DueDate.Before(in.StartDate) {
		return invalid("project due date must not be before its start date")
	}
	if in.ManagerID == 0 {
		in.ManagerID = actor.UserID
	}
	return nil
}

// CreateProject adds a project. The actor manages it unless another manager
// is named.
func (w *Workflow) CreateProject(ctx context.Context, actor model.Session, in ProjectInput) (*model.Project, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	if err := in.normalize(actor, w.now()); err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		ManagerID:   in.ManagerID,
	}
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		if err := mustExist[model.User](ctx, tx, "user", in.ManagerID); err != nil {
			return err
		}
		return tx.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "project created", "project_id", project.ProjectID, "user_id", actor.UserID)
	return project, nil
}

// UpdateProject replaces the editable fields of a project.
func (w *Workflow) UpdateProject(ctx context.Context, actor model.Session, projectID int, in ProjectInput, version int) (*model.Project, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}

	var project *model.Project
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		project, err = loadVersioned[model.Project](ctx, tx, "project", projectID, version)
		if err != nil {
			return err
		}
		if in.StartDate.IsZero() {
			in.StartDate = project.StartDate
		}
		if in.ManagerID == 0 {
			in.ManagerID = project.ManagerID
		}
		if err := in.normalize(actor, w.now()); err != nil {
			return err
		}
		if err := mustExist[model.User](ctx, tx, "user", in.ManagerID); err != nil {
			return err
		}
		project.Name = in.Name
		project.Description = in.Description
		project.Category = in.Category
		project.Status = in.Status
		project.Priority = in.Priority
		project.StartDate = in.StartDate
		project.DueDate = in.DueDate
		project.ManagerID = in.ManagerID
		return tx.Update(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "project updated", "project_id", projectID, "user_id", actor.UserID)
	return project, nil
}

// DeleteProject removes a project and everything that belongs to it.
func (w *Workflow) DeleteProject(ctx context.Context, actor model.Session, projectID int) (*CascadeResult, error) {
	if err := requireRole(actor, model.Managers...); err != nil {
		return nil, err
	}
	res, err := w.repo.DeleteProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "project deleted", "project_id", projectID, "tasks", res.Tasks, "sprints", res.Sprints,
		"risks", res.Risks, "time_logs", res.TimeLogs, "user_id", actor.UserID)
	if err := w.mirror.RemoveProject(ctx, projectID, res.TaskIDs); err != nil {
		slog.WarnContext(ctx, "failed to remove project from realtime mirror", "project_id", projectID, "error", err)
	}
	return res, nil
}

// UpdateUserRole changes a user's role. Only admins may do this.
func (w *Workflow) UpdateUserRole(ctx context.Context, actor model.Session, userID int, role model.Role, version int) (*model.User, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("invalid role %q", role)
	}

	var user *model.User
	err := w.repo.Transaction(ctx, func(tx *Repository) error {
		var err error
		user, err = loadVersioned[model.User](ctx, tx, "user", userID, version)
		if err != nil {
			return err
		}
		user.Role = role
		return tx.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user role updated", "target_user_id", userID, "role", role, "user_id", actor.UserID)
	return user, nil
}

func (w *Workflow) syncTask(ctx context.Context, task *model.Task) {
	if err := w.mirror.SyncTask(ctx, task); err != nil {
		slog.WarnContext(ctx, "failed to mirror task", "task_id", task.TaskID, "error", err)
	}
}

func (w *Workflow) notifyAssigned(ctx context.Context, task *model.Task) {
	if err := w.notifier.TaskAssigned(ctx, task); err != nil {
		slog.WarnContext(ctx, "failed to notify assignee", "task_id", task.TaskID, "user_id", task.AssignedToID, "error", err)
	}
}

// loadVersioned reads a record and checks the caller's expected version.
func loadVersioned[T any, PT interface {
	*T
	model.Versioned
}](ctx context.Context, tx *Repository, kind string, id, version int) (*T, error) {
	row, err := ReadByID[T](ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound(kind, id)
	}
	if current := PT(row).GetVersion(); version != AnyVersion && version != current {
		return nil, apperr.New(apperr.CodeConflict, fmt.Sprintf("%s %d is at version %d, not %d", kind, id, current, version))
	}
	return row, nil
}

func mustExist[T any](ctx context.Context, tx *Repository, kind string, id int) error {
	row, err := ReadByID[T](ctx, tx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return notFound(kind, id)
	}
	return nil
}

func checkTaskRefs(ctx context.Context, tx *Repository, task *model.Task) error {
	if err := mustExist[model.Project](ctx, tx, "project", task.ProjectID); err != nil {
		return err
	}
	if task.AssignedToID != 0 {
		if err := mustExist[model.User](ctx, tx, "user", task.AssignedToID); err != nil {
			return err
		}
	}
	if err := checkSprintRef(ctx, tx, task); err != nil {
		return err
	}
	return checkDependencyRef(ctx, tx, task)
}

func checkSprintRef(ctx context.Context, tx *Repository, task *model.Task) error {
	if task.SprintID == nil {
		return nil
	}
	sprint, err := ReadByID[model.Sprint](ctx, tx, *task.SprintID)
	if err != nil {
		return err
	}
	if sprint == nil {
		return notFound("sprint", *task.SprintID)
	}
	if sprint.ProjectID != task.ProjectID {
		return invalid("sprint %d belongs to another project", sprint.SprintID)
	}
	return nil
}

func checkDependencyRef(ctx context.Context, tx *Repository, task *model.Task) error {
	if task.DependencyTaskID == nil {
		return nil
	}
	depID := *task.DependencyTaskID
	if depID == task.TaskID {
		return &report.CycleError{Path: []int{depID, depID}}
	}
	dep, err := ReadByID[model.Task](ctx, tx, depID)
	if err != nil {
		return err
	}
	if dep == nil {
		return notFound("task", depID)
	}
	if dep.ProjectID != task.ProjectID {
		return invalid("task %d belongs to another project", depID)
	}
	if task.TaskID == 0 {
		// A new task has no dependents yet.
		return nil
	}
	siblings, err := ReadAll[model.Task](ctx, tx, task.ProjectID)
	if err != nil {
		return err
	}
	return report.WouldCycle(siblings, task.TaskID, depID)
}

func nonZero(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
