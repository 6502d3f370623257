package main

import (
	"log"
	"net/http"
	"os"

	_ "eventease/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"eventease/internal/auth"
	"eventease/internal/cache"
	"eventease/internal/config"
	"eventease/internal/db"
	"eventease/internal/handler"
	"eventease/internal/model"
	"eventease/internal/policy"
	"eventease/internal/repository"
	"eventease/internal/router"
	"eventease/internal/service"
)

// @title EventEase API
// @version 1.0
// @description Event management API with public RSVPs, organizer dashboards and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.RSVP{},
			&model.Event{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.RSVP{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	rsvpRepo := repository.NewRSVPRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Access policy; privileged overrides stay off unless configured
	access := policy.NewAccess(cfg.AllowPrivilegedView, cfg.AllowPrivilegedMutation)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	eventService := service.NewEventService(eventRepo, rsvpRepo, access, cacheClient)
	rsvpService := service.NewRSVPService(rsvpRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService)
	rsvpHandler := handler.NewRSVPHandler(rsvpService)

	// Register routes
	router.Register(
		e,
		jwtService,
		tokenStore,
		userRepo,
		authHandler,
		eventHandler,
		rsvpHandler,
	)

	log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
