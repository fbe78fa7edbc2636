package task

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func TaskController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/task", middleware.AccessTokenMiddleware(svc.Tokens))
	{
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, svc)
		})
		routes.GET("/:id/hours", func(c *gin.Context) {
			TaskHours(c, svc)
		})
	}
}

func GetTask(c *gin.Context, svc *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	task, err := services.ReadByID[model.Task](c.Request.Context(), svc.Repo, taskID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func TaskHours(c *gin.Context, svc *controller.Services) {
	taskID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	hours, err := svc.Views.TaskHours(c.Request.Context(), taskID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}
