package sprint

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func SprintController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/sprint", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...))
	{
		routes.POST("", func(c *gin.Context) {
			CreateSprint(c, svc)
		})
		routes.PUT("/:id/status", func(c *gin.Context) {
			UpdateSprintStatus(c, svc)
		})
	}
}

func CreateSprint(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	var req dto.CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	sprint, err := svc.Workflow.CreateSprint(c.Request.Context(), actor, services.SprintInput{
		Name:      req.Name,
		StartDate: req.StartDate.Value(),
		EndDate:   req.EndDate.Value(),
		Status:    model.SprintStatus(req.Status),
		ProjectID: req.ProjectID,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sprint created successfully", "sprint": sprint})
}

func UpdateSprintStatus(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	sprintID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SprintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	sprint, err := svc.Workflow.UpdateSprintStatus(c.Request.Context(), actor, sprintID, model.SprintStatus(req.Status), controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sprint updated successfully", "sprint": sprint})
}
