package task

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"

	"github.com/gin-gonic/gin"
)

func AdvanceTaskController(router *gin.Engine, svc *controller.Services) {
	router.PUT("/task/:id/advance", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Editors...), func(c *gin.Context) {
		AdvanceTask(c, svc)
	})
}

func AdvanceTask(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.AdvanceTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	task, err := svc.Workflow.Advance(c.Request.Context(), actor, taskID, model.TaskStatus(req.Status), req.Hours, controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task": task})
}
