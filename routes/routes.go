package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"naksha/handlers"
	"naksha/middleware"
)

// RegisterAvailabilityRoutes registers the consultant-facing pattern and
// slot management endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.ConsultantAuthMiddleware(hb.ConsultantRepo))
		api.GET("/patterns", hb.GetPatternsHandler)
		api.POST("/patterns", hb.CreatePatternHandler)
		api.PUT("/patterns/bulk", hb.ReplacePatternsHandler)
		api.PATCH("/patterns/:patternID", hb.UpdatePatternHandler)
		api.DELETE("/patterns/:patternID", hb.DeletePatternHandler)
		api.POST("/slots/generate", hb.GenerateSlotsHandler)
	}
}

// RegisterPublicRoutes registers the unauthenticated booking surface: the
// slot listing widgets poll and the booking call itself.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/public")
	{
		api.GET("/consultants/:slug/slots", hb.PublicSlotsHandler)
		api.POST("/bookings", hb.BookSessionHandler)
	}
}

// RegisterSessionRoutes registers the consultant-facing session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.ConsultantAuthMiddleware(hb.ConsultantRepo))
		api.GET("", hb.ListSessionsHandler)
		api.POST("", hb.ManualBookHandler)
		api.GET("/:sessionID", hb.GetSessionHandler)
		api.DELETE("/:sessionID", hb.CancelSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Naksha"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
}
