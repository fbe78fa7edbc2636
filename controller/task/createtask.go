package task

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func CreateTaskController(router *gin.Engine, svc *controller.Services) {
	router.POST("/task", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...), func(c *gin.Context) {
		CreateTask(c, svc)
	})
}

func CreateTask(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	task, err := svc.Workflow.CreateTask(c.Request.Context(), actor, services.TaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           model.TaskStatus(req.Status),
		Priority:         model.TaskPriority(req.Priority),
		EstimateHours:    req.EstimateHours,
		ProjectID:        req.ProjectID,
		SprintID:         req.SprintID,
		DependencyTaskID: req.DependencyTaskID,
		AssignedToID:     req.AssignedToID,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}
