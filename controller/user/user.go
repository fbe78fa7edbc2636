package user

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/user", middleware.AccessTokenMiddleware(svc.Tokens))
	{
		routes.GET("/profile", func(c *gin.Context) {
			Profile(c, svc)
		})
		routes.GET("/assignable", middleware.RoleMiddleware(model.Editors...), func(c *gin.Context) {
			Assignable(c, svc)
		})
		routes.GET("/dashboard", func(c *gin.Context) {
			Dashboard(c, svc)
		})
	}
}

func Profile(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}

	user, err := services.ReadByID[model.User](c.Request.Context(), svc.Repo, actor.UserID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Assignable lists username to id for the assignee pickers.
func Assignable(c *gin.Context, svc *controller.Services) {
	users, err := svc.Repo.UsersForAssignment(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func Dashboard(c *gin.Context, svc *controller.Services) {
	actor, ok := controller.Actor(c)
	if !ok {
		return
	}

	kpis, err := svc.Views.Dashboard(c.Request.Context(), actor)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}
