package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one line per request in the same format as the rest of the service logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		icon := "✅"
		switch {
		case status >= 500:
			icon = "❌"
		case status >= 400:
			icon = "⚠️ "
		}
		log.Printf("%s %s %s %d %s %s", icon, c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP())
		if len(c.Errors) > 0 {
			log.Printf("   errors: %s", c.Errors.String())
		}
	}
}
