package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/utils"
)

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response
// @Router /healthz [get]
func Check(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("ok", nil))
}
