package model

import (
	"time"

	"gorm.io/gorm"
)

// TimeLog records hours a user spent on a task. Logs are append-only.
type TimeLog struct {
	LogID   int       `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	Hours   float64   `gorm:"column:hours;not null" json:"hours"`
	LogDate time.Time `gorm:"column:log_date" json:"log_date"`
	TaskID  int       `gorm:"column:task_id;not null;index" json:"task_id"`
	UserID  int       `gorm:"column:user_id;not null;index" json:"user_id"`

	// Relations
	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"task,omitempty"`
	User *User `json:"user,omitempty"`
}

func (TimeLog) TableName() string {
	return "time_logs"
}

func (TimeLog) IDColumn() string { return "log_id" }
func (l TimeLog) ID() int        { return l.LogID }

func (l *TimeLog) BeforeSave(*gorm.DB) error {
	l.LogDate = l.LogDate.UTC()
	return nil
}
