package dto

type CreateTaskRequest struct {
	Title            string  `json:"title" binding:"required,max=255"`
	Description      string  `json:"description"`
	Status           string  `json:"status" binding:"omitempty,taskstatus"`
	Priority         string  `json:"priority" binding:"omitempty,taskpriority"`
	EstimateHours    float64 `json:"estimate_hours" binding:"gte=0"`
	ProjectID        int     `json:"project_id" binding:"required"`
	SprintID         *int    `json:"sprint_id"`
	DependencyTaskID *int    `json:"dependency_task_id"`
	AssignedToID     int     `json:"assigned_to_id" binding:"gte=0"`
}

type UpdateTaskRequest struct {
	Title            string  `json:"title" binding:"required,max=255"`
	Description      string  `json:"description"`
	Status           string  `json:"status" binding:"omitempty,taskstatus"`
	Priority         string  `json:"priority" binding:"omitempty,taskpriority"`
	EstimateHours    float64 `json:"estimate_hours" binding:"gte=0"`
	SprintID         *int    `json:"sprint_id"`
	DependencyTaskID *int    `json:"dependency_task_id"`
	AssignedToID     int     `json:"assigned_to_id" binding:"gte=0"`
	Version          *int    `json:"version"`
}

type AdvanceTaskRequest struct {
	Status  string  `json:"status" binding:"required,taskstatus"`
	Hours   float64 `json:"hours" binding:"gte=0,lte=24"`
	Version *int    `json:"version"`
}

type AssignSprintRequest struct {
	SprintID int  `json:"sprint_id" binding:"gte=0"`
	Version  *int `json:"version"`
}

type DependencyRequest struct {
	DependsOnID int  `json:"depends_on_id" binding:"gte=0"`
	Version     *int `json:"version"`
}
