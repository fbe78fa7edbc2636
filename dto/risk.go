package dto

type CreateRiskRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Description    string `json:"description"`
	Probability    string `json:"probability" binding:"required,level"`
	Impact         string `json:"impact" binding:"required,level"`
	MitigationPlan string `json:"mitigation_plan"`
	ProjectID      int    `json:"project_id" binding:"required"`
	OwnerID        int    `json:"owner_id" binding:"gte=0"`
}

type UpdateRiskRequest struct {
	MitigationPlan string `json:"mitigation_plan"`
	Status         string `json:"status" binding:"required,riskstatus"`
	Version        *int   `json:"version"`
}
