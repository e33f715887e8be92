package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"naksha/models"
	"naksha/services/booking"
	"naksha/utils"
)

// BookingHandler exposes session admission, cancellation and reads.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func bookingError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	utils.JSONError(c, utils.StatusForCode(code), code, err.Error())
}

// BookSessionHandler admits a public booking against an open slot.
func (h *BookingHandler) BookSessionHandler(c *gin.Context) {
	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	result, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ManualBookHandler records a session on the consultant's own calendar,
// outside the public widget. The slug and source come from the authenticated
// identity, not the payload.
func (h *BookingHandler) ManualBookHandler(c *gin.Context) {
	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeBadInput, err.Error())
		return
	}
	req.ConsultantSlug = c.GetString("consultantSlug")
	req.Source = models.BookingSourceManual

	result, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelSessionHandler cancels one of the consultant's sessions and frees
// its slot.
func (h *BookingHandler) CancelSessionHandler(c *gin.Context) {
	session, err := h.Service.Cancel(c.Request.Context(), consultantID(c), c.Param("sessionID"))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSessionHandler reads one of the consultant's sessions.
func (h *BookingHandler) GetSessionHandler(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), consultantID(c), c.Param("sessionID"))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessionsHandler lists the consultant's upcoming sessions.
func (h *BookingHandler) ListSessionsHandler(c *gin.Context) {
	sessions, err := h.Service.ListUpcoming(c.Request.Context(), consultantID(c), c.Query("from"))
	if err != nil {
		bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
