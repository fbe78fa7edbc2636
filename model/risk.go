package model

type Risk struct {
	RiskID         int        `gorm:"column:risk_id;primaryKey;autoIncrement" json:"risk_id"`
	Name           string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description    string     `gorm:"column:description;type:text" json:"description"`
	Probability    Level      `gorm:"column:probability;type:varchar(16);not null" json:"probability"`
	Impact         Level      `gorm:"column:impact;type:varchar(16);not null" json:"impact"`
	MitigationPlan string     `gorm:"column:mitigation_plan;type:text" json:"mitigation_plan"`
	Status         RiskStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	ProjectID      int        `gorm:"column:project_id;not null;index" json:"project_id"`
	OwnerID        int        `gorm:"column:owner_id;index" json:"owner_id"`
	Version        int        `gorm:"column:version;not null" json:"version"`

	// Relations
	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Risk) TableName() string {
	return "risks"
}

func (r *Risk) GetVersion() int      { return r.Version }
func (r *Risk) SetVersion(v int)     { r.Version = v }
func (r Risk) ProjectColumn() string { return "project_id" }

func (Risk) IDColumn() string { return "risk_id" }
func (r Risk) ID() int        { return r.RiskID }
