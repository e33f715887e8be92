package handlers

import (
	consultantRepoPkg "naksha/database/repository/consultant"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	ConsultantRepo consultantRepoPkg.ConsultantRepository

	// Availability endpoints
	GetPatternsHandler     gin.HandlerFunc
	CreatePatternHandler   gin.HandlerFunc
	UpdatePatternHandler   gin.HandlerFunc
	DeletePatternHandler   gin.HandlerFunc
	ReplacePatternsHandler gin.HandlerFunc
	GenerateSlotsHandler   gin.HandlerFunc
	PublicSlotsHandler     gin.HandlerFunc

	// Booking endpoints
	BookSessionHandler   gin.HandlerFunc
	ManualBookHandler    gin.HandlerFunc
	CancelSessionHandler gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	ListSessionsHandler  gin.HandlerFunc
}
