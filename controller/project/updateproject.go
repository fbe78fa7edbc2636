package project

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"

	"github.com/gin-gonic/gin"
)

func UpdateProjectController(router *gin.Engine, svc *controller.Services) {
	router.PUT("/project/:id", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.Managers...), func(c *gin.Context) {
		UpdateProject(c, svc)
	})
}

func UpdateProject(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	projectID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	project, err := svc.Workflow.UpdateProject(c.Request.Context(), actor, projectID, projectInput(req), controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully", "project": project})
}
