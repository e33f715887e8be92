package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"naksha/services/availability"
	"naksha/utils"
)

// AvailabilityHandler exposes pattern management, slot generation and the
// public slot listing.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

func availabilityError(c *gin.Context, err error) {
	code := availability.CodeOf(err)
	utils.JSONError(c, utils.StatusForCode(code), code, err.Error())
}

// consultantID reads the identity set by the auth middleware.
func consultantID(c *gin.Context) string {
	return c.GetString("consultantID")
}

// GetPatternsHandler lists the authenticated consultant's weekly patterns.
func (h *AvailabilityHandler) GetPatternsHandler(c *gin.Context) {
	patterns, err := h.Service.GetPatterns(c.Request.Context(), consultantID(c))
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

// CreatePatternHandler adds one weekly pattern.
func (h *AvailabilityHandler) CreatePatternHandler(c *gin.Context) {
	var in availability.PatternInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	pattern, err := h.Service.CreatePattern(c.Request.Context(), consultantID(c), in)
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pattern)
}

// UpdatePatternHandler applies a partial update to one pattern.
func (h *AvailabilityHandler) UpdatePatternHandler(c *gin.Context) {
	var in availability.PatternUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	pattern, err := h.Service.UpdatePattern(c.Request.Context(), consultantID(c), c.Param("patternID"), in)
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

// DeletePatternHandler removes one pattern and blocks its future unbooked
// slots.
func (h *AvailabilityHandler) DeletePatternHandler(c *gin.Context) {
	if err := h.Service.DeletePattern(c.Request.Context(), consultantID(c), c.Param("patternID")); err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReplacePatternsHandler swaps the consultant's entire pattern set.
func (h *AvailabilityHandler) ReplacePatternsHandler(c *gin.Context) {
	var in struct {
		Patterns []availability.PatternInput `json:"patterns"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	result, err := h.Service.ReplacePatterns(c.Request.Context(), consultantID(c), in.Patterns)
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateSlotsHandler materializes slots over an explicit date window.
func (h *AvailabilityHandler) GenerateSlotsHandler(c *gin.Context) {
	var req availability.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	created, err := h.Service.GenerateSlots(c.Request.Context(), consultantID(c), req)
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots_created": created})
}

// PublicSlotsHandler serves the open slot listing for a consultant slug.
// Unauthenticated; this is what booking widgets poll.
func (h *AvailabilityHandler) PublicSlotsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	req := availability.PublicSlotsRequest{
		Slug:        c.Param("slug"),
		SessionType: c.Query("session_type"),
		FromDate:    c.Query("from"),
		ToDate:      c.Query("to"),
		Limit:       limit,
		Offset:      offset,
	}
	resp, err := h.Service.ListPublicSlots(c.Request.Context(), req)
	if err != nil {
		availabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
