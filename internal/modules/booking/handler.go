package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/response"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *Service
	log     logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/my", h.ListMine)
	rg.GET("/bookings/:id", h.Get)
	rg.GET("/bookings/:id/history", h.History)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/decline", h.Decline)
	rg.POST("/listings/:id/block", h.Block)
	rg.GET("/listings/:id/bookings", h.ListForListing)
}

func (h *Handler) Create(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	checkIn, checkOut, ok := parseDates(c, body.CheckIn, body.CheckOut)
	if !ok {
		return
	}

	b, err := h.service.Create(c.Request.Context(), CreateRequest{
		UserID:     c.GetInt64("user_id"),
		ListingID:  body.ListingID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: body.GuestCount,
		Comment:    body.Comment,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Block(c *gin.Context) {
	listingID, ok := pathID(c)
	if !ok {
		return
	}
	var body blockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	checkIn, checkOut, ok := parseDates(c, body.CheckIn, body.CheckOut)
	if !ok {
		return
	}

	b, err := h.service.CreateBlock(c.Request.Context(), BlockRequest{
		OwnerID:   c.GetInt64("user_id"),
		ListingID: listingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.Confirm(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Decline(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// reason is optional; an empty or missing body is fine
	var body declineBody
	_ = c.ShouldBindJSON(&body)
	b, err := h.service.Decline(c.Request.Context(), id, c.GetInt64("user_id"), body.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.service.History(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) ListMine(c *gin.Context) {
	rows, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) ListForListing(c *gin.Context) {
	listingID, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.service.ListForListing(c.Request.Context(), listingID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "DATES_UNAVAILABLE", "Those dates are already taken")
	case errors.Is(err, ErrNoLongerAvailable):
		response.Error(c, http.StatusConflict, "DATES_UNAVAILABLE", "Someone booked those dates just now, pick another range")
	case errors.Is(err, ErrAlreadyResolved):
		response.Error(c, http.StatusConflict, "ALREADY_RESOLVED", "This booking was already settled")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that")
	default:
		h.log.Error("booking request failed", "error", err)
		response.Retry(c)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, false
	}
	return id, true
}

func parseDates(c *gin.Context, in, out string) (time.Time, time.Time, bool) {
	checkIn, err := time.Parse(dateLayout, in)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := time.Parse(dateLayout, out)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_out must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}
