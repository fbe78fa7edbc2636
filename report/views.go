package report

import (
	"fmt"
	"sort"
	"time"

	"pmdashboard/model"
)

// StatusCount is one histogram bar.
type StatusCount struct {
	Status model.TaskStatus `json:"status"`
	Count  int              `json:"count"`
}

// StatusHistogram counts tasks per status. Every status is present, in board
// order, even when its count is zero.
func StatusHistogram(tasks []model.Task) []StatusCount {
	counts := make(map[model.TaskStatus]int, len(model.TaskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	out := make([]StatusCount, 0, len(model.TaskStatuses))
	for _, s := range model.TaskStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

// HoursByTask sums log hours per task.
func HoursByTask(logs []model.TimeLog) map[int]float64 {
	out := make(map[int]float64)
	for _, l := range logs {
		out[l.TaskID] += l.Hours
	}
	return out
}

// WeeklyBucket is the hours one user logged in one ISO week.
type WeeklyBucket struct {
	UserID   int     `json:"user_id"`
	Username string  `json:"username"`
	Year     int     `json:"year"`
	Week     int     `json:"week"`
	Label    string  `json:"label"`
	Hours    float64 `json:"hours"`
}

// WeeklyHours groups logs by user and ISO week, sorted by username then week.
// usernames maps user ids to display names; unknown ids fall back to "#id".
func WeeklyHours(logs []model.TimeLog, usernames map[int]string) []WeeklyBucket {
	type key struct{ user, year, week int }
	sums := map[key]float64{}
	for _, l := range logs {
		year, week := l.LogDate.ISOWeek()
		sums[key{l.UserID, year, week}] += l.Hours
	}

	out := make([]WeeklyBucket, 0, len(sums))
	for k, hours := range sums {
		name, ok := usernames[k.user]
		if !ok {
			name = fmt.Sprintf("#%d", k.user)
		}
		out = append(out, WeeklyBucket{
			UserID:   k.user,
			Username: name,
			Year:     k.year,
			Week:     k.week,
			Label:    fmt.Sprintf("%d-W%02d", k.year, k.week),
			Hours:    hours,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Week < b.Week
	})
	return out
}

// TimelineItem is one Gantt bar. Dates are a placeholder derived from the
// creation date and the estimate; no scheduling is done.
type TimelineItem struct {
	TaskID        int                `json:"task_id"`
	Title         string             `json:"title"`
	Status        model.TaskStatus   `json:"status"`
	Priority      model.TaskPriority `json:"priority"`
	AssignedToID  int                `json:"assigned_to_id"`
	DependsOn     *int               `json:"dependency_task_id"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	EstimateHours float64            `json:"estimate_hours"`
	LoggedHours   float64            `json:"logged_hours"`
	Progress      float64            `json:"progress"`
}

// Timeline returns one bar per task in input order. A bar starts on the day
// the task was created and lasts its estimate in hours, or one day when the
// estimate is zero.
func Timeline(tasks []model.Task, hoursByTask map[int]float64) []TimelineItem {
	out := make([]TimelineItem, 0, len(tasks))
	for _, t := range tasks {
		y, m, d := t.CreatedAt.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, t.CreatedAt.Location())
		end := start.AddDate(0, 0, 1)
		if t.EstimateHours > 0 {
			end = start.Add(time.Duration(t.EstimateHours * float64(time.Hour)))
		}
		logged := hoursByTask[t.TaskID]
		out = append(out, TimelineItem{
			TaskID:        t.TaskID,
			Title:         t.Title,
			Status:        t.Status,
			Priority:      t.Priority,
			AssignedToID:  t.AssignedToID,
			DependsOn:     t.DependencyTaskID,
			Start:         start,
			End:           end,
			EstimateHours: t.EstimateHours,
			LoggedHours:   logged,
			Progress:      progress(logged, t.EstimateHours),
		})
	}
	return out
}

// VelocityRow is the completed estimate of one finished sprint.
type VelocityRow struct {
	SprintID int     `json:"sprint_id"`
	Sprint   string  `json:"sprint"`
	Project  string  `json:"project"`
	Velocity float64 `json:"velocity_hours"`
}

// SprintVelocity sums the estimates of Done tasks for every Completed sprint.
func SprintVelocity(sprints []model.Sprint, tasks []model.Task, projectNames map[int]string) []VelocityRow {
	done := map[int]float64{}
	for _, t := range tasks {
		if t.SprintID != nil && t.Status == model.TaskDone {
			done[*t.SprintID] += t.EstimateHours
		}
	}
	out := []VelocityRow{}
	for _, s := range sprints {
		if s.Status != model.SprintCompleted {
			continue
		}
		out = append(out, VelocityRow{
			SprintID: s.SprintID,
			Sprint:   s.Name,
			Project:  projectNames[s.ProjectID],
			Velocity: done[s.SprintID],
		})
	}
	return out
}

// Card is a task on the kanban board.
type Card struct {
	model.Task
	LoggedHours float64 `json:"logged_hours"`
	Progress    float64 `json:"progress"`
}

// Column is one kanban lane.
type Column struct {
	Status model.TaskStatus `json:"status"`
	Cards  []Card           `json:"cards"`
}

// Kanban places tasks into the four status columns in board order. Progress
// is logged over estimated hours and 0 when there is no estimate.
func Kanban(tasks []model.Task, hoursByTask map[int]float64) []Column {
	cols := make([]Column, len(model.TaskStatuses))
	index := make(map[model.TaskStatus]int, len(cols))
	for i, s := range model.TaskStatuses {
		cols[i] = Column{Status: s, Cards: []Card{}}
		index[s] = i
	}
	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			continue
		}
		logged := hoursByTask[t.TaskID]
		cols[i].Cards = append(cols[i].Cards, Card{Task: t, LoggedHours: logged, Progress: progress(logged, t.EstimateHours)})
	}
	return cols
}

// Backlog returns the tasks that are not in a sprint.
func Backlog(tasks []model.Task) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.InBacklog() {
			out = append(out, t)
		}
	}
	return out
}

// Progress counts finished tasks.
type Progress struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// ProjectProgress counts Done tasks among tasks.
func ProjectProgress(tasks []model.Task) Progress {
	var p Progress
	for _, t := range tasks {
		p.Total++
		if t.Status == model.TaskDone {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Done) * 100 / float64(p.Total)
	}
	return p
}

// SprintSummary is a sprint with its task progress.
type SprintSummary struct {
	model.Sprint
	Progress Progress `json:"progress"`
}

// SprintProgress pairs each sprint with the progress of its tasks.
func SprintProgress(sprints []model.Sprint, tasks []model.Task) []SprintSummary {
	bySprint := map[int][]model.Task{}
	for _, t := range tasks {
		if t.SprintID != nil {
			bySprint[*t.SprintID] = append(bySprint[*t.SprintID], t)
		}
	}
	out := make([]SprintSummary, 0, len(sprints))
	for _, s := range sprints {
		out = append(out, SprintSummary{Sprint: s, Progress: ProjectProgress(bySprint[s.SprintID])})
	}
	return out
}

func progress(logged, estimate float64) float64 {
	if estimate <= 0 {
		return 0
	}
	return logged / estimate
}

// TimeLogRow is one line of the team time tracking report.
type TimeLogRow struct {
	LogID     int     `json:"log_id"`
	Username  string  `json:"username"`
	TaskID    int     `json:"task_id"`
	TaskTitle string  `json:"task_title"`
	Project   string  `json:"project"`
	Hours     float64 `json:"hours"`
	Date      string  `json:"date"`
}

// TimeTracking flattens logs with their user, task and project loaded,
// largest entries first.
func TimeTracking(logs []model.TimeLog) []TimeLogRow {
	out := make([]TimeLogRow, 0, len(logs))
	for _, l := range logs {
		row := TimeLogRow{LogID: l.LogID, TaskID: l.TaskID, Hours: l.Hours, Date: l.LogDate.Format("2006-01-02")}
		if l.User != nil {
			row.Username = l.User.Username
		}
		if l.Task != nil {
			row.TaskTitle = l.Task.Title
			if l.Task.Project != nil {
				row.Project = l.Task.Project.Name
			}
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours > out[j].Hours })
	return out
}
