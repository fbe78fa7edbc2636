package admin

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func AdminController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/admin", middleware.AccessTokenMiddleware(svc.Tokens), middleware.RoleMiddleware(model.RoleAdmin))
	{
		routes.GET("/users", func(c *gin.Context) {
			ReadAllUser(c, svc)
		})
		routes.PUT("/users/:id/role", func(c *gin.Context) {
			UpdateRole(c, svc)
		})
	}
}

func ReadAllUser(c *gin.Context, svc *controller.Services) {
	users, err := services.ReadAll[model.User](c.Request.Context(), svc.Repo, 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func UpdateRole(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}
	userID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	user, err := svc.Workflow.UpdateUserRole(c.Request.Context(), actor, userID, model.Role(req.Role), controller.Version(req.Version))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully", "user": user})
}
