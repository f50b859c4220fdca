package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uucee/ClubWebApp/internal/models"
	"github.com/uucee/ClubWebApp/internal/permissions"
	"github.com/uucee/ClubWebApp/internal/utils"
)

// RequireCapability guards a route group behind a permission check. It
// must run after AuthMiddleware. Denials carry the decision reason so
// the caller knows why access was refused.
func RequireCapability(cap permissions.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := CurrentMember(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		if d := permissions.Check(member, cap); !d.Allowed {
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: "+d.Reason))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentMember fetches the authenticated aggregate from the context.
func CurrentMember(c *gin.Context) (models.Member, bool) {
	val, exists := c.Get(MemberContextKey)
	if !exists {
		return models.Member{}, false
	}
	member, ok := val.(models.Member)
	return member, ok
}
