package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	consultantRepo "naksha/database/repository/consultant"
	"naksha/utils"
)

// ConsultantAuthMiddleware guards the consultant-facing endpoints. The token
// subject is the consultant ID; the row must exist and be active.
func ConsultantAuthMiddleware(consultants consultantRepo.ConsultantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		consultantID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		consultant, err := consultants.GetByID(c.Request.Context(), consultantID)
		if err != nil || consultant == nil || !consultant.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Consultant not found or inactive"})
			return
		}

		c.Set("consultantID", consultant.ID)
		c.Set("consultantSlug", consultant.Slug)
		c.Next()
	}
}
