package dto

type UpdateRoleRequest struct {
	Role    string `json:"role" binding:"required,role"`
	Version *int   `json:"version"`
}
