package dto

type CreateSprintRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	StartDate *Date  `json:"start_date"`
	EndDate   *Date  `json:"end_date"`
	Status    string `json:"status" binding:"omitempty,sprintstatus"`
	ProjectID int    `json:"project_id" binding:"required"`
}

type SprintStatusRequest struct {
	Status  string `json:"status" binding:"required,sprintstatus"`
	Version *int   `json:"version"`
}
