package main

import (
	"log"
	"os"
	"time"

	"nexusai-be/internal/model"
	"nexusai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds the demo admin accounts used by the console. Idempotent: existing
// rows are left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("🚀 Seeding admin accounts")

	seedAdmin(db, "admin@demo.com", "admin123", "Demo Admin", "admin")
	seedAdmin(db, "super@admin.com", "super123", "Super Admin", "super_admin")

	color.Green("Done.")
}

func seedAdmin(db *gorm.DB, email, password, fullName, role string) {
	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		color.Yellow("Skip: %s already exists", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Failed to hash password for %s: %v", email, err)
		return
	}
	hashStr := string(hash)

	now := time.Now()
	user := &model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     fullName,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(user).Error; err != nil {
		color.Red("Failed to seed %s: %v", email, err)
		return
	}
	color.Green("Seeded %s (%s)", email, role)
}
