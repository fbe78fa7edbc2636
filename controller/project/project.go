package project

import (
	"context"
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/middleware"

	"github.com/gin-gonic/gin"
)

func ProjectController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/project", middleware.AccessTokenMiddleware(svc.Tokens))
	{
		routes.GET("", func(c *gin.Context) {
			ReadAllProject(c, svc)
		})
		routes.GET("/:id", func(c *gin.Context) {
			ReadProject(c, svc)
		})
	}
	ProjectViewController(routes, svc)
}

func ReadAllProject(c *gin.Context, svc *controller.Services) {
	projects, err := svc.Views.Projects(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func ReadProject(c *gin.Context, svc *controller.Services) {
	projectID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	project, err := svc.Views.Project(c.Request.Context(), projectID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func ProjectViewController(routes *gin.RouterGroup, svc *controller.Services) {
	views := map[string]func(ctx context.Context, projectID int) (any, error){
		"kanban":    func(ctx context.Context, id int) (any, error) { return svc.Views.Kanban(ctx, id) },
		"backlog":   func(ctx context.Context, id int) (any, error) { return svc.Views.Backlog(ctx, id) },
		"wbs":       func(ctx context.Context, id int) (any, error) { return svc.Views.WBS(ctx, id) },
		"timeline":  func(ctx context.Context, id int) (any, error) { return svc.Views.Timeline(ctx, id) },
		"histogram": func(ctx context.Context, id int) (any, error) { return svc.Views.Histogram(ctx, id) },
		"sprints":   func(ctx context.Context, id int) (any, error) { return svc.Views.Sprints(ctx, id) },
		"risks":     func(ctx context.Context, id int) (any, error) { return svc.Views.Risks(ctx, id) },
	}
	for name, load := range views {
		load := load
		routes.GET("/:id/"+name, func(c *gin.Context) {
			projectView(c, load)
		})
	}
}

func projectView(c *gin.Context, load func(ctx context.Context, projectID int) (any, error)) {
	projectID, ok := controller.ParamID(c, "id")
	if !ok {
		return
	}
	view, err := load(c.Request.Context(), projectID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
