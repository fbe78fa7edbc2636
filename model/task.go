package model

import "time"

type Task struct {
	TaskID           int          `gorm:"column:task_id;primaryKey;autoIncrement" json:"task_id"`
	Title            string       `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description      string       `gorm:"column:description;type:text" json:"description"`
	Status           TaskStatus   `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Priority         TaskPriority `gorm:"column:priority;type:varchar(16);not null" json:"priority"`
	EstimateHours    float64      `gorm:"column:estimate_hours;not null" json:"estimate_hours"`
	DependencyTaskID *int         `gorm:"column:dependency_task_id;index" json:"dependency_task_id"`
	SprintID         *int         `gorm:"column:sprint_id;index" json:"sprint_id"`
	ProjectID        int          `gorm:"column:project_id;not null;index" json:"project_id"`
	AssignedToID     int          `gorm:"column:assigned_to_id;index" json:"assigned_to_id"`
	CreatedAt        time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Version          int          `gorm:"column:version;not null" json:"version"`

	// Relations
	Project   *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Sprint    *Sprint  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	DependsOn *Task    `gorm:"foreignKey:DependencyTaskID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) GetVersion() int      { return t.Version }
func (t *Task) SetVersion(v int)     { t.Version = v }
func (t Task) ProjectColumn() string { return "project_id" }

// InBacklog reports whether the task has no sprint.
func (t *Task) InBacklog() bool { return t.SprintID == nil }

func (Task) IDColumn() string { return "task_id" }
func (t Task) ID() int        { return t.TaskID }
