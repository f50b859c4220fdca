package member

import (
	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/middleware"
	"github.com/uucee/ClubWebApp/internal/permissions"
)

func RegisterRoutes(router *gin.RouterGroup) {
	members := router.Group("/members")
	members.GET("", ListMembers)
	members.POST("", AddMember)
	members.POST("/bulk-upload", BulkUpload)
	members.POST("/send-invites", SendInvites)
	members.PATCH("/:id/status", UpdateStatus)

	// Admin-only surface; the group middleware already requires member
	// management, these two additionally require the admin capabilities.
	members.POST("/:id/toggle-access", middleware.RequireCapability(permissions.ToggleAccess), ToggleAccess)
	members.DELETE("/:id", middleware.RequireCapability(permissions.DeleteMembers), DeleteMember)
}
