package dto

type ProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=64"`
	Status      string `json:"status" binding:"omitempty,projectstatus"`
	Priority    string `json:"priority" binding:"omitempty,projectpriority"`
	StartDate   *Date  `json:"start_date"`
	DueDate     *Date  `json:"due_date"`
	ManagerID   int    `json:"manager_id" binding:"gte=0"`
	Version     *int   `json:"version"`
}
