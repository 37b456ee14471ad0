package main

import (
	"agriVest/app/echo-server/router"
	"agriVest/business/investment"
	"agriVest/business/notification"
	"agriVest/business/project"
	userService "agriVest/business/user"
	"agriVest/internal/middleware"
	mailRepo "agriVest/internal/repository/notification"
	psqlRepo "agriVest/internal/repository/postgres"
	redisRepo "agriVest/internal/repository/redis"
	"agriVest/internal/rest"
	"agriVest/pkg/config"
	"agriVest/pkg/database"
	redisClient "agriVest/pkg/database/redis"
	"agriVest/pkg/logger"
	"agriVest/pkg/metrics"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	defer logger.Sync()
	logger.Info("Starting AgriVest", "version", cfg.App.Version, "env", cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	// Mail transport: Mailjet when configured, otherwise log only
	var transport notification.MailTransport = mailRepo.NewLogRepository()
	if cfg.Mailjet.MailjetBaseUrl != "" {
		transport = mailRepo.NewMailjetRepository(
			mailRepo.MailjetConfig{
				MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
				MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
				MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
				MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
			},
		)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	var workers sync.WaitGroup

	var mailer userService.Mailer = notification.NewSyncMailer(transport)
	if cfg.Mail.Delivery == config.MailDeliveryQueue {
		rdb, err := redisClient.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.CloseRedisClient(rdb)

		queue := redisRepo.NewMailQueue(rdb)
		mailer = notification.NewQueuedMailer(queue)

		worker := notification.NewWorker(queue, transport, cfg.Mail.MaxAttempts)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(workerCtx)
		}()
		logger.Info("Mail queue worker started")
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	tokenRepo := psqlRepo.NewTokenRepository(db)
	projectRepo := psqlRepo.NewProjectRepository(db)
	investmentRepo := psqlRepo.NewInvestmentRepository(db)
	notificationRepo := psqlRepo.NewNotificationRepository(db)

	// Init service
	notificationService := notification.NewNotificationService(notificationRepo)
	userService := userService.NewUserService(userRepo, tokenRepo, validate, notificationService, mailer, userService.Config{
		JWTSecret:        cfg.JWT.SecretKey,
		AdminEmail:       cfg.Mail.AdminEmail,
		DefaultFromEmail: cfg.Mail.DefaultFromEmail,
	})
	projectService := project.NewProjectService(projectRepo)
	investmentService := investment.NewInvestmentService(investmentRepo, projectRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userService)
	projectHandler := rest.NewProjectHandler(projectService)
	investmentHandler := rest.NewInvestmentHandler(investmentService)
	notificationHandler := rest.NewNotificationHandler(notificationService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(userService)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupOpsRoutes(e, cfg.App.Name, cfg.App.Version)
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupNotificationRoutes(api, notificationHandler, authRequired)
	router.SetupProjectRoutes(api, projectHandler, authRequired)
	router.SetupInvestmentRoutes(api, investmentHandler, authRequired)
	router.SetupAdminRoutes(api, userHandler, projectHandler, investmentHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	stopWorker()
	workers.Wait()

	logger.Info("Server stopped")
}
