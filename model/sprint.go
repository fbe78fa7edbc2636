package model

import (
	"time"

	"gorm.io/gorm"
)

type Sprint struct {
	SprintID  int          `gorm:"column:sprint_id;primaryKey;autoIncrement" json:"sprint_id"`
	Name      string       `gorm:"column:name;type:varchar(255);not null" json:"name"`
	StartDate time.Time    `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time    `gorm:"column:end_date" json:"end_date"`
	Status    SprintStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	ProjectID int          `gorm:"column:project_id;not null;index" json:"project_id"`
	Version   int          `gorm:"column:version;not null" json:"version"`

	// Relations
	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Sprint) TableName() string {
	return "sprints"
}

func (s *Sprint) GetVersion() int      { return s.Version }
func (s *Sprint) SetVersion(v int)     { s.Version = v }
func (s Sprint) ProjectColumn() string { return "project_id" }

func (Sprint) IDColumn() string { return "sprint_id" }
func (s Sprint) ID() int        { return s.SprintID }

func (s *Sprint) BeforeSave(*gorm.DB) error {
	s.StartDate = s.StartDate.UTC()
	s.EndDate = s.EndDate.UTC()
	return nil
}
