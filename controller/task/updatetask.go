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

func UpdateTaskController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/task", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...))
	{
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateTask(c, svc)
		})
		routes.PUT("/:id/sprint", func(c *gin.Context) {
			AssignSprint(c, svc)
		})
		routes.PUT("/:id/dependency", func(c *gin.Context) {
			SetDependency(c, svc)
		})
	}
}

func UpdateTask(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	task, err := svc.Workflow.UpdateTaskDetails(c.Request.Context(), actor, taskID, services.TaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           model.TaskStatus(req.Status),
		Priority:         model.TaskPriority(req.Priority),
		EstimateHours:    req.EstimateHours,
		SprintID:         req.SprintID,
		DependencyTaskID: req.DependencyTaskID,
		AssignedToID:     req.AssignedToID,
	}, controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}

func AssignSprint(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	task, err := svc.Workflow.AssignSprint(c.Request.Context(), actor, taskID, req.SprintID, controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task sprint updated successfully", "task": task})
}

func SetDependency(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	task, err := svc.Workflow.SetDependency(c.Request.Context(), actor, taskID, req.DependsOnID, controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task dependency updated successfully", "task": task})
}
