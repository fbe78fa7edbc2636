package services

import (
	"context"
	"io"

	"pmdashboard/model"
	"pmdashboard/report"
)

// Views loads what the read-side projections need and hands it to report.
type Views struct {
	repo *Repository
}

func NewViews(repo *Repository) *Views {
	return &Views{repo: repo}
}

// ProjectDetail is a project with its task progress.
type ProjectDetail struct {
	model.Project
	Progress report.Progress `json:"progress"`
}

func (v *Views) Project(ctx context.Context, projectID int) (*ProjectDetail, error) {
	project, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *project, Progress: report.ProjectProgress(tasks)}, nil
}

func (v *Views) Projects(ctx context.Context) ([]ProjectDetail, error) {
	projects, err := ReadAll[model.Project](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	tasks, err := ReadAll[model.Task](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	byProject := map[int][]model.Task{}
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	out := make([]ProjectDetail, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectDetail{Project: p, Progress: report.ProjectProgress(byProject[p.ProjectID])})
	}
	return out, nil
}

func (v *Views) Kanban(ctx context.Context, projectID int) ([]report.Column, error) {
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	hours, err := v.repo.HoursByTask(ctx, taskIDs(tasks))
	if err != nil {
		return nil, err
	}
	return report.Kanban(tasks, hours), nil
}

func (v *Views) Backlog(ctx context.Context, projectID int) ([]model.Task, error) {
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return report.Backlog(tasks), nil
}

func (v *Views) WBS(ctx context.Context, projectID int) ([]*report.WBSNode, error) {
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return report.BuildWBS(tasks)
}

func (v *Views) Timeline(ctx context.Context, projectID int) ([]report.TimelineItem, error) {
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	hours, err := v.repo.HoursByTask(ctx, taskIDs(tasks))
	if err != nil {
		return nil, err
	}
	return report.Timeline(tasks, hours), nil
}

// Histogram counts tasks per status for one project, or all projects when
// projectID is 0.
func (v *Views) Histogram(ctx context.Context, projectID int) ([]report.StatusCount, error) {
	if projectID == 0 {
		tasks, err := ReadAll[model.Task](ctx, v.repo, 0)
		if err != nil {
			return nil, err
		}
		return report.StatusHistogram(tasks), nil
	}
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return report.StatusHistogram(tasks), nil
}

func (v *Views) Sprints(ctx context.Context, projectID int) ([]report.SprintSummary, error) {
	_, tasks, err := v.projectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sprints, err := ReadAll[model.Sprint](ctx, v.repo, projectID)
	if err != nil {
		return nil, err
	}
	return report.SprintProgress(sprints, tasks), nil
}

func (v *Views) Risks(ctx context.Context, projectID int) ([]model.Risk, error) {
	if err := mustExist[model.Project](ctx, v.repo, "project", projectID); err != nil {
		return nil, err
	}
	return ReadAll[model.Risk](ctx, v.repo, projectID)
}

// TaskHours is the logged total for one task.
type TaskHours struct {
	TaskID        int     `json:"task_id"`
	EstimateHours float64 `json:"estimate_hours"`
	LoggedHours   float64 `json:"logged_hours"`
}

func (v *Views) TaskHours(ctx context.Context, taskID int) (*TaskHours, error) {
	task, err := ReadByID[model.Task](ctx, v.repo, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFound("task", taskID)
	}
	logged, err := v.repo.HoursLoggedForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskHours{TaskID: taskID, EstimateHours: task.EstimateHours, LoggedHours: logged}, nil
}

func (v *Views) Dashboard(ctx context.Context, s model.Session) (*report.DashboardKPIs, error) {
	projects, err := ReadAll[model.Project](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	tasks, err := ReadAll[model.Task](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	logs, err := ReadAll[model.TimeLog](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	risks, err := ReadAll[model.Risk](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	k := report.Dashboard(s, projects, tasks, logs, risks)
	return &k, nil
}

func (v *Views) WeeklyHours(ctx context.Context) ([]report.WeeklyBucket, error) {
	logs, err := ReadAll[model.TimeLog](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	users, err := v.repo.UsersForAssignment(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(users))
	for name, id := range users {
		names[id] = name
	}
	return report.WeeklyHours(logs, names), nil
}

func (v *Views) Velocity(ctx context.Context) ([]report.VelocityRow, error) {
	sprints, err := ReadAll[model.Sprint](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	tasks, err := ReadAll[model.Task](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	projects, err := ReadAll[model.Project](ctx, v.repo, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(projects))
	for _, p := range projects {
		names[p.ProjectID] = p.Name
	}
	return report.SprintVelocity(sprints, tasks, names), nil
}

func (v *Views) TimeTracking(ctx context.Context) ([]report.TimeLogRow, error) {
	logs, err := v.repo.TimeLogsDetailed(ctx)
	if err != nil {
		return nil, err
	}
	return report.TimeTracking(logs), nil
}

// Export writes every record of kind as CSV.
func (v *Views) Export(ctx context.Context, w io.Writer, kind report.Kind) error {
	var rows any
	var err error
	switch kind {
	case report.KindProjects:
		rows, err = ReadAll[model.Project](ctx, v.repo, 0)
	case report.KindTasks:
		rows, err = ReadAll[model.Task](ctx, v.repo, 0)
	case report.KindUsers:
		rows, err = ReadAll[model.User](ctx, v.repo, 0)
	case report.KindSprints:
		rows, err = ReadAll[model.Sprint](ctx, v.repo, 0)
	case report.KindRisks:
		rows, err = ReadAll[model.Risk](ctx, v.repo, 0)
	case report.KindTimeLogs:
		rows, err = ReadAll[model.TimeLog](ctx, v.repo, 0)
	default:
		return invalid("unknown export kind %q", kind)
	}
	if err != nil {
		return err
	}
	return report.ExportCSV(w, kind, rows)
}

func (v *Views) projectTasks(ctx context.Context, projectID int) (*model.Project, []model.Task, error) {
	project, err := ReadByID[model.Project](ctx, v.repo, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, notFound("project", projectID)
	}
	tasks, err := ReadAll[model.Task](ctx, v.repo, projectID)
	if err != nil {
		return nil, nil, err
	}
	return project, tasks, nil
}

func taskIDs(tasks []model.Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.TaskID
	}
	return ids
}
