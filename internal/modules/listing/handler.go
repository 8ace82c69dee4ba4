package listing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/listings", h.Create)
	rg.GET("/listings/my", h.ListMine)
	rg.POST("/listings/:id/publish", h.Publish)
	rg.DELETE("/listings/:id", h.Deactivate)
}

type createBody struct {
	TypeID        int64   `json:"type_id" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	ShortAddress  string  `json:"short_address"`
	NightlyPrice  float64 `json:"nightly_price" binding:"required"`
	MaxGuests     int     `json:"max_guests" binding:"required"`
	Description   string  `json:"description"`
	RewardPercent int     `json:"reward_percent"`
}

func (h *Handler) Create(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	l, err := h.service.Create(c.Request.Context(), CreateRequest{
		OwnerID:       c.GetInt64("user_id"),
		TypeID:        body.TypeID,
		Address:       body.Address,
		ShortAddress:  body.ShortAddress,
		NightlyPrice:  body.NightlyPrice,
		MaxGuests:     body.MaxGuests,
		Description:   body.Description,
		RewardPercent: body.RewardPercent,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := h.service.Publish(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

func (h *Handler) ListMine(c *gin.Context) {
	rows, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
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
	case errors.Is(err, ErrHasActiveBookings):
		response.Error(c, http.StatusConflict, "HAS_ACTIVE_BOOKINGS", "Settle or wait out the active bookings first")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that")
	default:
		h.log.Error("listing request failed", "error", err)
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
