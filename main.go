package main

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/uucee/ClubWebApp/config"
	"github.com/uucee/ClubWebApp/internal/api"
	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	err = logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	router, err := api.NewRouter()
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}

	// Migrate the schema
	err = database.DB.AutoMigrate(&models.User{}, &models.Profile{}, &models.Due{}, &models.Payment{})
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	initAdminUser()

	if err := router.Run(":8080"); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// initAdminUser seeds the initial superuser so the club has an
// administrator before any invitation has been issued.
func initAdminUser() {
	adminUsername := "admin@fc92club.org"
	adminPassword := "ChangeMe1234"

	var adminUser models.User
	result := database.DB.Where("username = ?", adminUsername).First(&adminUser)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}

			adminUser = models.User{
				Username:    adminUsername,
				Email:       adminUsername,
				Password:    string(hashedPassword),
				FirstName:   "Club",
				LastName:    "Administrator",
				IsActive:    true,
				IsStaff:     true,
				IsSuperuser: true,
			}
			if err := database.DB.Create(&adminUser).Error; err != nil {
				log.Fatalf("failed to create admin user: %v", err)
			}

			profile := models.Profile{
				UserID: adminUser.ID,
				Role:   models.RoleAdmin,
				Status: models.StatusActive,
			}
			if err := database.DB.Create(&profile).Error; err != nil {
				log.Fatalf("failed to create admin profile: %v", err)
			}

			log.Println("Initial admin user created. Change the default password immediately.")
		} else {
			log.Fatalf("failed to check admin user: %v", result.Error)
		}
	}
}
