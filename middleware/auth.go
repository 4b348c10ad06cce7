package middleware

import (
	"net/http"
	"strings"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUser  = "user"
	ctxActor = "actor"
)

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireAuth rejects requests without a valid token for an existing user.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := auth.ParseToken(raw)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, err.Error())
			return
		}
		user, err := auth.Me(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, services.ErrInvalidToken.Error())
			return
		}

		id := user.ID
		name := user.Name
		if name == "" {
			name = user.Username
		}
		c.Set(ctxUser, user)
		c.Set(ctxActor, services.Actor{ID: &id, Email: user.Email, Name: name})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin() {
			utils.AbortJSONError(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// ActorFrom returns the authenticated actor, or services.SystemActor.
func ActorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if a, ok := v.(services.Actor); ok {
			return a
		}
	}
	return services.SystemActor
}
