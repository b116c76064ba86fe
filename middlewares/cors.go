package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddlewares allows the configured origins; "*" allows any origin.
func CORSMiddlewares(allowed string) gin.HandlerFunc {
	origins := strings.Split(allowed, ",")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o == "*" || (origin != "" && o == origin) {
				if origin == "" {
					origin = "*"
				}
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Business-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
