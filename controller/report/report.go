package report

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"pmdashboard/controller"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/report"

	"github.com/gin-gonic/gin"
)

func ReportController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/report", middleware.AccessTokenMiddleware(svc.Tokens))
	{
		routes.GET("/export/:kind", middleware.RoleMiddleware(model.Managers...), func(c *gin.Context) {
			Export(c, svc)
		})
		routes.GET("/timelogs", func(c *gin.Context) {
			TimeTracking(c, svc)
		})
		routes.GET("/weekly", func(c *gin.Context) {
			WeeklyHours(c, svc)
		})
		routes.GET("/velocity", func(c *gin.Context) {
			Velocity(c, svc)
		})
		routes.GET("/histogram", func(c *gin.Context) {
			Histogram(c, svc)
		})
	}
}

// Export answers with a CSV attachment of every record of the requested kind.
func Export(c *gin.Context, svc *controller.Services) {
	kind, err := report.ParseKind(c.Param("kind"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	// Buffer so an error can still be answered as JSON.
	var buf bytes.Buffer
	if err := svc.Views.Export(c.Request.Context(), &buf, kind); err != nil {
		controller.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(kind, time.Now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func TimeTracking(c *gin.Context, svc *controller.Services) {
	rows, err := svc.Views.TimeTracking(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func WeeklyHours(c *gin.Context, svc *controller.Services) {
	buckets, err := svc.Views.WeeklyHours(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func Velocity(c *gin.Context, svc *controller.Services) {
	rows, err := svc.Views.Velocity(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Histogram counts tasks per status across all projects.
func Histogram(c *gin.Context, svc *controller.Services) {
	counts, err := svc.Views.Histogram(c.Request.Context(), 0)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
