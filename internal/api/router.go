package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/config"
	"github.com/uucee/ClubWebApp/internal/api/health"
	adminFinance "github.com/uucee/ClubWebApp/internal/api/v1/admin/finance"
	adminMember "github.com/uucee/ClubWebApp/internal/api/v1/admin/member"
	"github.com/uucee/ClubWebApp/internal/api/v1/auth"
	"github.com/uucee/ClubWebApp/internal/api/v1/invitation"
	"github.com/uucee/ClubWebApp/internal/api/v1/profile"
	"github.com/uucee/ClubWebApp/internal/database"
	"github.com/uucee/ClubWebApp/internal/mailer"
	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/permissions"
	"github.com/uucee/ClubWebApp/internal/services"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	services.Mail = mailer.FromConfig(cfg)

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/healthz", health.Check)

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)
		invitation.RegisterRoutes(v1) // public; the token is the credential

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			profile.RegisterRoutes(authorized)
		}

		// Admin/FS routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireCapability(permissions.ManageMembers))
		{
			adminMember.RegisterRoutes(admin)
			adminFinance.RegisterRoutes(admin)
		}
	}

	return router, nil
}
