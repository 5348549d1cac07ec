package main

import (
	"log"
	"net/http"

	_ "campus/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"campus/internal/auth"
	"campus/internal/cache"
	"campus/internal/config"
	"campus/internal/db"
	"campus/internal/handler"
	"campus/internal/model"
	"campus/internal/repository"
	"campus/internal/router"
	"campus/internal/service"
)

// @title Course Enrollment API
// @version 1.0
// @description Course-enrollment management backend with role-based access and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	enrollmentRepo := repository.NewEnrollmentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	courseService := service.NewCourseService(courseRepo, cacheClient)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	courseHandler := handler.NewCourseHandler(courseService)
	studentHandler := handler.NewStudentHandler(userService, courseService, enrollmentService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	adminHandler := handler.NewAdminHandler(userService, courseService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		courseHandler,
		studentHandler,
		enrollmentHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
