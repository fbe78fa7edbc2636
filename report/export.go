package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pmdashboard/apperr"
	"pmdashboard/model"
)

// Kind names an exportable entity set.
type Kind string

const (
	KindProjects Kind = "Projects"
	KindTasks    Kind = "Tasks"
	KindUsers    Kind = "Users"
	KindSprints  Kind = "Sprints"
	KindRisks    Kind = "Risks"
	KindTimeLogs Kind = "Time Logs"
)

var Kinds = []Kind{KindProjects, KindTasks, KindUsers, KindSprints, KindRisks, KindTimeLogs}

// ParseKind accepts a kind by display name or slug ("time_logs", "time-logs").
func ParseKind(s string) (Kind, error) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Kinds {
		if strings.ToLower(string(k)) == norm {
			return k, nil
		}
	}
	return "", apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("unknown export kind %q", s))
}

// Slug is the lower-case, underscore-separated form of the kind.
func (k Kind) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(k)), " ", "_")
}

// FileName is the download name for an export made at now.
func FileName(k Kind, now time.Time) string {
	return fmt.Sprintf("%s_report_%s.csv", k.Slug(), now.Format("20060102"))
}

const csvTime = time.RFC3339

// ExportCSV writes a header and one row per record. rows must be the slice
// type matching kind. Password hashes are never written.
func ExportCSV(w io.Writer, kind Kind, rows any) error {
	header, records, err := tabulate(kind, rows)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func tabulate(kind Kind, rows any) ([]string, [][]string, error) {
	mismatch := func() error {
		return apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("cannot export %T as %s", rows, kind))
	}
	switch kind {
	case KindProjects:
		projects, ok := rows.([]model.Project)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(projects))
		for _, p := range projects {
			out = append(out, []string{
				itoa(p.ProjectID), p.Name, p.Description, p.Category, string(p.Status), string(p.Priority),
				p.StartDate.Format(csvTime), timePtr(p.DueDate), itoa(p.ManagerID),
			})
		}
		return []string{"project_id", "name", "description", "category", "status", "priority", "start_date", "due_date", "manager_id"}, out, nil

	case KindTasks:
		tasks, ok := rows.([]model.Task)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, []string{
				itoa(t.TaskID), t.Title, t.Description, string(t.Status), string(t.Priority), ftoa(t.EstimateHours),
				intPtr(t.DependencyTaskID), intPtr(t.SprintID), itoa(t.ProjectID), itoa(t.AssignedToID),
				t.CreatedAt.Format(csvTime), t.UpdatedAt.Format(csvTime),
			})
		}
		return []string{"task_id", "title", "description", "status", "priority", "estimate_hours", "dependency_task_id", "sprint_id", "project_id", "assigned_to_id", "created_at", "updated_at"}, out, nil

	case KindUsers:
		users, ok := rows.([]model.User)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(users))
		for _, u := range users {
			out = append(out, []string{itoa(u.UserID), u.Username, u.Email, string(u.Role), u.CreatedAt.Format(csvTime)})
		}
		return []string{"user_id", "username", "email", "role", "created_at"}, out, nil

	case KindSprints:
		sprints, ok := rows.([]model.Sprint)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(sprints))
		for _, s := range sprints {
			out = append(out, []string{itoa(s.SprintID), s.Name, s.StartDate.Format(csvTime), s.EndDate.Format(csvTime), string(s.Status), itoa(s.ProjectID)})
		}
		return []string{"sprint_id", "name", "start_date", "end_date", "status", "project_id"}, out, nil

	case KindRisks:
		risks, ok := rows.([]model.Risk)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(risks))
		for _, r := range risks {
			out = append(out, []string{
				itoa(r.RiskID), r.Name, r.Description, string(r.Probability), string(r.Impact),
				r.MitigationPlan, string(r.Status), itoa(r.ProjectID), itoa(r.OwnerID),
			})
		}
		return []string{"risk_id", "name", "description", "probability", "impact", "mitigation_plan", "status", "project_id", "owner_id"}, out, nil

	case KindTimeLogs:
		logs, ok := rows.([]model.TimeLog)
		if !ok {
			return nil, nil, mismatch()
		}
		out := make([][]string, 0, len(logs))
		for _, l := range logs {
			out = append(out, []string{itoa(l.LogID), ftoa(l.Hours), l.LogDate.Format(csvTime), itoa(l.TaskID), itoa(l.UserID)})
		}
		return []string{"log_id", "hours", "log_date", "task_id", "user_id"}, out, nil
	}
	return nil, nil, apperr.New(apperr.CodeInvalidInput, fmt.Sprintf("unknown export kind %q", kind))
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func timePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(csvTime)
}
