package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus/internal/config"
	"campus/internal/db"
	"campus/internal/model"
	"campus/internal/repository"
)

// Ensures the default admin account exists. Safe to run repeatedly: an
// existing admin username is left untouched.
func main() {
	log.Println("Starting admin bootstrap...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Course{}, &model.Enrollment{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if existing, err := userRepo.FindByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Printf("Admin account %q already exists (id=%d), nothing to do", existing.Username, existing.ID)
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatalf("check admin account: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	admin := &model.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		Active:       true,
		FirstName:    "System",
		LastName:     "Administrator",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("create admin account: %v", err)
	}

	log.Printf("Admin account %q created (id=%d)", admin.Username, admin.ID)
}
