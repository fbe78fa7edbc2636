package model

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ProjectID   int             `gorm:"column:project_id;primaryKey;autoIncrement" json:"project_id"`
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Category    string          `gorm:"column:category;type:varchar(64);default:Software" json:"category"`
	Status      ProjectStatus   `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Priority    ProjectPriority `gorm:"column:priority;type:varchar(16);not null" json:"priority"`
	StartDate   time.Time       `gorm:"column:start_date" json:"start_date"`
	DueDate     *time.Time      `gorm:"column:due_date" json:"due_date"`
	ManagerID   int             `gorm:"column:manager_id;index" json:"manager_id"`
	Version     int             `gorm:"column:version;not null" json:"version"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) GetVersion() int  { return p.Version }
func (p *Project) SetVersion(v int) { p.Version = v }

func (Project) IDColumn() string { return "project_id" }
func (p Project) ID() int        { return p.ProjectID }

// BeforeSave stores dates in UTC so they compare correctly as text on SQLite.
func (p *Project) BeforeSave(*gorm.DB) error {
	p.StartDate = p.StartDate.UTC()
	if p.DueDate != nil {
		due := p.DueDate.UTC()
		p.DueDate = &due
	}
	return nil
}
