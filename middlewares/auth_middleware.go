package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID     = "user_id"
	ContextUserName   = "user_name"
	ContextBusinessID = "business_id"
	ContextRoles      = "roles"
	ContextToken      = "token"
)

// BusinessHeader lets a superadmin act inside a specific business.
const BusinessHeader = "X-Business-ID"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header must use the Bearer scheme"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if !authorize(c, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		c.Next()
	}
}

// authorize validates the token and stores the caller in the context.
func authorize(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return false
	}

	businessID := claims.BusinessID
	if claims.HasRole(models.RoleSuperAdmin) {
		if override := c.GetHeader(BusinessHeader); override != "" {
			businessID = override
		} else if override := c.Query("business_id"); override != "" {
			businessID = override
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserName, claims.Name)
	c.Set(ContextBusinessID, businessID)
	c.Set(ContextRoles, claims.Roles)
	c.Set(ContextToken, tokenString)
	return true
}
