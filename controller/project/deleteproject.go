package project

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/middleware"
	"pmdashboard/model"

	"github.com/gin-gonic/gin"
)

func DeleteProjectController(router *gin.Engine, svc *controller.Services) {
	router.DELETE("/project/:id", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...), func(c *gin.Context) {
		DeleteProject(c, svc)
	})
}

func DeleteProject(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	projectID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}

	res, err := svc.Workflow.DeleteProject(c.Request.Context(), actor, projectID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Project deleted successfully",
		"tasks":     res.Tasks,
		"sprints":   res.Sprints,
		"risks":     res.Risks,
		"time_logs": res.TimeLogs,
	})
}
