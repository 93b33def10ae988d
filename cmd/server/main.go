package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "finhealth/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"finhealth/internal/auth"
	"finhealth/internal/cache"
	"finhealth/internal/config"
	"finhealth/internal/db"
	"finhealth/internal/handler"
	"finhealth/internal/model"
	"finhealth/internal/repository"
	"finhealth/internal/router"
	"finhealth/internal/service"
)

// @title Financial Health API
// @version 1.0
// @description Personal finance API with transaction tracking, dashboard aggregation, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Transaction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)

	// Auth components
	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtService)
	transactionService := service.NewTransactionService(transactionRepo, cacheClient)
	dashboardService := service.NewDashboardService(transactionRepo, cacheClient, nil)

	// Handlers
	healthHandler := handler.NewHealthHandler(gormDB)
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	router.Register(
		e,
		cfg,
		router.Gateway(jwtService, userRepo),
		healthHandler,
		authHandler,
		dashboardHandler,
		transactionHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
}
