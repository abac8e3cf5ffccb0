// Package app assembles repositories, services, handlers and routes into a
// runnable echo server.
package app

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"unihub/internal/auth"
	"unihub/internal/cache"
	"unihub/internal/config"
	"unihub/internal/handler"
	"unihub/internal/mail"
	"unihub/internal/repository"
	"unihub/internal/router"
	"unihub/internal/seed"
	"unihub/internal/service"
	"unihub/internal/storage"
)

// Deps are the external resources the server runs on.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Cache   cache.Store
	Mailer  mail.Mailer
	Storage storage.Service
}

// App is a wired server. Start must be called before serving so that
// notification emails are delivered.
type App struct {
	Echo     *echo.Echo
	Notifier *service.EmailNotifier
	JWT      *auth.JWTService
}

// New wires every layer.
func New(d Deps) *App {
	// Initialize repositories
	userRepo := repository.NewUserRepository(d.DB)
	clubRepo := repository.NewClubRepository(d.DB)
	membershipRepo := repository.NewMembershipRepository(d.DB)
	clubLogRepo := repository.NewClubLogRepository(d.DB)
	postRepo := repository.NewPostRepository(d.DB)
	eventRepo := repository.NewEventRepository(d.DB)

	// Initialize auth components
	jwtService := auth.NewJWTService(d.Config.JWTSecret)
	tokenStore := auth.NewTokenStore(d.Cache)

	notifier := service.NewEmailNotifier(membershipRepo, d.Mailer, d.Logger.Named("notifier"))

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, tokenStore, d.Mailer, d.Cache, d.Logger)
	userService := service.NewUserService(userRepo, membershipRepo, eventRepo, d.Storage, d.Cache, d.Logger)
	clubService := service.NewClubService(clubRepo, membershipRepo, clubLogRepo, userRepo, d.Storage, d.Cache, d.Logger)
	membershipService := service.NewMembershipService(membershipRepo, clubRepo, userRepo, d.Logger)
	postService := service.NewPostService(postRepo, clubRepo, membershipRepo, userRepo, d.Storage, notifier, d.Logger)
	eventService := service.NewEventService(eventRepo, clubRepo, membershipRepo, userRepo, d.Storage, notifier, d.Logger)
	feedService := service.NewFeedService(postRepo, eventRepo, membershipRepo)
	uploadService := service.NewUploadService(d.Storage, d.Logger)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Club:       handler.NewClubHandler(clubService),
		Membership: handler.NewMembershipHandler(membershipService),
		Post:       handler.NewPostHandler(postService),
		Event:      handler.NewEventHandler(eventService),
		Feed:       handler.NewFeedHandler(feedService),
		Upload:     handler.NewUploadHandler(uploadService),
	}
	if !d.Config.IsProduction() {
		seeder := seed.New(userRepo, clubRepo, membershipRepo, postRepo, eventRepo, d.Logger.Named("seed"))
		handlers.Seed = handler.NewSeedHandler(seeder)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, d.Config, d.Logger, jwtService, tokenStore, handlers)

	return &App{Echo: e, Notifier: notifier, JWT: jwtService}
}

// Start launches background workers bound to ctx.
func (a *App) Start(ctx context.Context) {
	a.Notifier.Start(ctx)
}

// Close drains background workers.
func (a *App) Close() {
	a.Notifier.Close()
}
