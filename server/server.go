package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pmdashboard/config"
	"pmdashboard/controller"
	"pmdashboard/controller/admin"
	"pmdashboard/controller/auth"
	"pmdashboard/controller/project"
	"pmdashboard/controller/report"
	"pmdashboard/controller/risk"
	"pmdashboard/controller/sprint"
	"pmdashboard/controller/task"
	"pmdashboard/controller/user"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router builds the HTTP API over svc.
func Router(svc *controller.Services, logger *slog.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader, "Content-Disposition")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	auth.AuthController(router, svc)
	user.UserController(router, svc)
	project.ProjectController(router, svc)
	project.CreateProjectController(router, svc)
	project.UpdateProjectController(router, svc)
	project.DeleteProjectController(router, svc)
	task.TaskController(router, svc)
	task.CreateTaskController(router, svc)
	task.UpdateTaskController(router, svc)
	task.AdvanceTaskController(router, svc)
	sprint.SprintController(router, svc)
	risk.RiskController(router, svc)
	report.ReportController(router, svc)
	admin.AdminController(router, svc)

	return router, nil
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.RequireSecrets(); err != nil {
		return err
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.SeedDemo {
		if _, err := app.Seed(ctx); err != nil {
			return err
		}
	}

	router, err := Router(app.Services, logger)
	if err != nil {
		return err
	}

	if cfg.ReminderSpec != "" {
		reminder := scheduler.NewReminder(app.Services.Repo, app.Notifier, cfg.ReminderWindowDays)
		cron, err := scheduler.StartScheduler(cfg.ReminderSpec, reminder)
		if err != nil {
			return err
		}
		defer cron.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
