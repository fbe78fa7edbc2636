package project

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func CreateProjectController(router *gin.Engine, svc *controller.Services) {
	router.POST("/project", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...), func(c *gin.Context) {
		CreateProject(c, svc)
	})
}

func CreateProject(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	project, err := svc.Workflow.CreateProject(c.Request.Context(), actor, projectInput(req))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Project created successfully", "project": project})
}

func projectInput(req dto.ProjectRequest) services.ProjectInput {
	return services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Status:      model.ProjectStatus(req.Status),
		Priority:    model.ProjectPriority(req.Priority),
		StartDate:   req.StartDate.Value(),
		DueDate:     req.DueDate.Ptr(),
		ManagerID:   req.ManagerID,
	}
}
