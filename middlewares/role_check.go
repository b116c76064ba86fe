package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// RequireRoles lets the request through when the caller holds any of
// roles. Superadmins always pass.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := c.GetStringSlice(ContextRoles)
		if len(have) == 0 {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}
		for _, r := range have {
			if r == models.RoleSuperAdmin {
				c.Next()
				return
			}
			for _, want := range roles {
				if r == want {
					c.Next()
					return
				}
			}
		}
		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", strings.Join(roles, " or ")))
	}
}

// RequireBusiness rejects callers without a business scope, which only
// happens for a superadmin that did not pick one.
func RequireBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString(ContextBusinessID)
		if id == "" || id == models.SystemBusinessID {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("no business selected, send the %s header", BusinessHeader))
			return
		}
		c.Next()
	}
}
