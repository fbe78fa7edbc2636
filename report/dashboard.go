package report

import (
	"sort"

	"pmdashboard/model"
)

const urgentListSize = 5

// UrgentTask is an open High or Urgent task shown on the dashboard.
type UrgentTask struct {
	TaskID   int                `json:"task_id"`
	Title    string             `json:"title"`
	Priority model.TaskPriority `json:"priority"`
	Project  string             `json:"project"`
}

// DashboardKPIs is the landing-page summary for one user.
type DashboardKPIs struct {
	TotalProjects   int           `json:"total_projects"`
	ActiveProjects  int           `json:"active_projects"`
	MyOpenTasks     int           `json:"my_open_tasks"`
	MyDoneTasks     int           `json:"my_done_tasks"`
	MyHoursLogged   float64       `json:"my_hours_logged"`
	OpenRisks       int           `json:"open_risks"`
	UrgentOpenTasks int           `json:"urgent_open_tasks"`
	UrgentTasks     []UrgentTask  `json:"urgent_tasks"`
	StatusHistogram []StatusCount `json:"status_histogram"`
}

// Dashboard computes the KPIs for the session's user.
func Dashboard(s model.Session, projects []model.Project, tasks []model.Task, logs []model.TimeLog, risks []model.Risk) DashboardKPIs {
	k := DashboardKPIs{
		TotalProjects:   len(projects),
		UrgentTasks:     []UrgentTask{},
		StatusHistogram: StatusHistogram(tasks),
	}
	names := make(map[int]string, len(projects))
	for _, p := range projects {
		names[p.ProjectID] = p.Name
		if p.Status == model.ProjectInProgress {
			k.ActiveProjects++
		}
	}

	var urgent []model.Task
	for _, t := range tasks {
		if t.AssignedToID == s.UserID {
			if t.Status == model.TaskDone {
				k.MyDoneTasks++
			} else {
				k.MyOpenTasks++
			}
		}
		if t.Status != model.TaskDone && (t.Priority == model.TaskPriorityHigh || t.Priority == model.TaskPriorityUrgent) {
			urgent = append(urgent, t)
		}
	}
	k.UrgentOpenTasks = len(urgent)

	// Urgent before High, then oldest first.
	sort.SliceStable(urgent, func(i, j int) bool {
		if urgent[i].Priority != urgent[j].Priority {
			return urgent[i].Priority == model.TaskPriorityUrgent
		}
		return urgent[i].TaskID < urgent[j].TaskID
	})
	for i, t := range urgent {
		if i == urgentListSize {
			break
		}
		k.UrgentTasks = append(k.UrgentTasks, UrgentTask{TaskID: t.TaskID, Title: t.Title, Priority: t.Priority, Project: names[t.ProjectID]})
	}

	for _, l := range logs {
		if l.UserID == s.UserID {
			k.MyHoursLogged += l.Hours
		}
	}
	for _, r := range risks {
		if r.Status == model.RiskOpen {
			k.OpenRisks++
		}
	}
	return k
}
