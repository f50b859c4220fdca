package invitation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public acceptance endpoints. No auth
// middleware: the token itself is the credential.
func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/accept-invitation/:token", Preview)
	router.POST("/accept-invitation/:token", Accept)
}
