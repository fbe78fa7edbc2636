package server

import (
	"context"
	"log/slog"
	"time"

	"pmdashboard/config"
	"pmdashboard/connection"
	"pmdashboard/controller"
	"pmdashboard/notification"
	"pmdashboard/services"

	"gorm.io/gorm"
)

// App holds the clients and services of a running process.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *controller.Services
	Mirror   notification.Mirror
	Notifier notification.Notifier

	closers []func() error
}

// NewApp opens the database and, when credentials are configured, Firebase,
// then builds the services. Without Firebase the mirror and the notifier are
// no-ops.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := connection.DBConnection(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: db, Mirror: notification.Nop{}, Notifier: notification.Nop{}}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	if cfg.FirebaseCredentials != "" {
		fs, msg, err := connection.FBConnection(ctx, cfg.FirebaseCredentials)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, fs.Close)
		app.Mirror = notification.NewFirestoreMirror(fs)
		app.Notifier = notification.NewFCMNotifier(msg)
		slog.Info("firebase ready")
	} else {
		slog.Info("firebase credentials not set; realtime mirror and push notifications disabled")
	}

	repo := services.NewRepository(db)
	app.Services = &controller.Services{
		Tokens:   services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Auth:     services.NewAuthenticator(repo, cfg.BcryptCost),
		Workflow: services.NewWorkflow(repo, app.Mirror, app.Notifier),
		Views:    services.NewViews(repo),
		Repo:     repo,
	}
	return app, nil
}

// Seed loads the demo accounts and data when they are absent.
func (a *App) Seed(ctx context.Context) (*services.SeedResult, error) {
	res, err := services.Seed(ctx, a.Services.Repo, a.Services.Auth, a.Config.SeedPasswords, time.Now())
	if err != nil {
		return nil, err
	}
	slog.Info("seed finished", "users_created", res.Users, "projects_created", res.Projects)
	return res, nil
}

// Close releases every client in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
