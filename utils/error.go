package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes shared by the service layer. Handlers map these to HTTP
// statuses via StatusForCode.
const (
	CodeBadInput  = "BAD_INPUT"
	CodeNotFound  = "NOT_FOUND"
	CodeOverlap   = "OVERLAP"
	CodeConflict  = "CONFLICT"
	CodeSlotTaken = "SLOT_TAKEN"
	CodeBusy      = "BUSY"
	CodeBadState  = "BAD_STATE"
	CodeDeadline  = "DEADLINE"
	CodeInfra     = "INFRA"
	CodeInternal  = "INTERNAL"
)

// StatusForCode maps a service error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeBadInput, CodeOverlap:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSlotTaken, CodeBadState:
		return http.StatusConflict
	case CodeBusy:
		return http.StatusLocked
	case CodeDeadline:
		return http.StatusGatewayTimeout
	case CodeInfra:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
