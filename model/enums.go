package model

// Role is a user's permission level.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "Project Manager"
	RoleTeamMember     Role = "Team Member"
	RoleViewer         Role = "Viewer"
)

var Roles = []Role{RoleAdmin, RoleProjectManager, RoleTeamMember, RoleViewer}

func (r Role) Valid() bool { return contains(Roles, r) }

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectArchived   ProjectStatus = "Archived"
)

var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectArchived}

func (s ProjectStatus) Valid() bool { return contains(ProjectStatuses, s) }

// ProjectPriority ranks projects.
type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "Low"
	ProjectPriorityMedium ProjectPriority = "Medium"
	ProjectPriorityHigh   ProjectPriority = "High"
)

var ProjectPriorities = []ProjectPriority{ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh}

func (p ProjectPriority) Valid() bool { return contains(ProjectPriorities, p) }

// TaskStatus is a kanban column. The order of TaskStatuses is the board order.
type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskInReview   TaskStatus = "In Review"
	TaskDone       TaskStatus = "Done"
)

var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskInReview, TaskDone}

func (s TaskStatus) Valid() bool { return contains(TaskStatuses, s) }

// TaskPriority ranks tasks.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

func (p TaskPriority) Valid() bool { return contains(TaskPriorities, p) }

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "Planning"
	SprintActive    SprintStatus = "Active"
	SprintCompleted SprintStatus = "Completed"
)

var SprintStatuses = []SprintStatus{SprintPlanning, SprintActive, SprintCompleted}

func (s SprintStatus) Valid() bool { return contains(SprintStatuses, s) }

// Level is a risk probability or impact rating.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

func (l Level) Valid() bool { return contains(Levels, l) }

// RiskStatus is the lifecycle state of a risk.
type RiskStatus string

const (
	RiskOpen    RiskStatus = "Open"
	RiskManaged RiskStatus = "Managed"
	RiskClosed  RiskStatus = "Closed"
)

var RiskStatuses = []RiskStatus{RiskOpen, RiskManaged, RiskClosed}

func (s RiskStatus) Valid() bool { return contains(RiskStatuses, s) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
