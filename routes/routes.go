package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"guesthouse-backend/controllers"
	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type Controllers struct {
	Auth         *controllers.AuthController
	Reservations *controllers.ReservationController
	Rooms        *controllers.RoomController
	Logs         *controllers.LogController
	Settings     *controllers.SettingsController
}

// SetupRouter wires every /api route. Public routes come first inside each group.
func SetupRouter(ctl Controllers, auth *services.AuthService) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
	r.GET("/health", health)

	requireAuth := middleware.RequireAuth(auth)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		api.GET("/health", health)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", ctl.Auth.Login)
			authRoutes.POST("/register", requireAuth, requireAdmin, ctl.Auth.Register)
			authRoutes.GET("/me", requireAuth, ctl.Auth.Me)
		}

		reservations := api.Group("/reservations")
		{
			// public form
			reservations.GET("/check-availability", ctl.Reservations.CheckAvailability)
			reservations.POST("", ctl.Reservations.Create)

			reservations.GET("", requireAuth, ctl.Reservations.List)
			reservations.GET("/stats", requireAuth, ctl.Reservations.Stats)
			reservations.GET("/:id", requireAuth, ctl.Reservations.Get)
			reservations.PUT("/:id", requireAuth, requireAdmin, ctl.Reservations.Update)
			reservations.PATCH("/:id/archive", requireAuth, ctl.Reservations.Archive)
			reservations.PATCH("/:id/restore", requireAuth, ctl.Reservations.Restore)
			reservations.DELETE("/:id", requireAuth, requireAdmin, ctl.Reservations.Delete)
		}

		rooms := api.Group("/rooms", requireAuth)
		{
			rooms.GET("/occupancy", ctl.Rooms.Occupancy)
			rooms.GET("", ctl.Rooms.List)
			rooms.GET("/:id", ctl.Rooms.Get)
			rooms.POST("", requireAdmin, ctl.Rooms.Create)
			rooms.PUT("/:id", requireAdmin, ctl.Rooms.Update)
			rooms.DELETE("/:id", requireAdmin, ctl.Rooms.Delete)
		}

		logs := api.Group("/logs", requireAuth)
		{
			logs.GET("", ctl.Logs.List)
			logs.GET("/stats", ctl.Logs.Stats)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", ctl.Settings.GetSettings)
			settings.PUT("", requireAuth, requireAdmin, ctl.Settings.UpdateSettings)
		}

		presets := api.Group("/presets")
		{
			presets.GET("", ctl.Settings.ListPresets)
			presets.POST("", requireAuth, requireAdmin, ctl.Settings.CreatePreset)
			presets.PUT("/:id", requireAuth, requireAdmin, ctl.Settings.UpdatePreset)
			presets.DELETE("/:id", requireAuth, requireAdmin, ctl.Settings.DeletePreset)
		}
	}

	return r
}
