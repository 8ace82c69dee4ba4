package search

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

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
	rg.GET("/listing-types", h.ListTypes)
	rg.POST("/search", h.Search)
	rg.GET("/search/:id/current", h.Current)
	rg.POST("/search/:id/next", h.Next)
	rg.POST("/search/:id/prev", h.Prev)
}

func (h *Handler) Search(c *gin.Context) {
	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	checkIn, err := time.Parse(dateLayout, body.CheckIn)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, body.CheckOut)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_out must be YYYY-MM-DD")
		return
	}

	res, err := h.service.Search(c.Request.Context(), Request{
		UserID:    c.GetInt64("user_id"),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		TypeIDs:   body.TypeIDs,
		PriceTier: PriceTier(body.PriceTier),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Current(c *gin.Context) { h.page(c, h.service.Current) }
func (h *Handler) Next(c *gin.Context)    { h.page(c, h.service.Next) }
func (h *Handler) Prev(c *gin.Context)    { h.page(c, h.service.Prev) }

func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		h.log.Error("listing type lookup failed", "error", err)
		response.Retry(c)
		return
	}
	response.Success(c, http.StatusOK, types)
}

func (h *Handler) page(c *gin.Context, fn func(ctx context.Context, sessionID, userID int64) (*Page, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := fn(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Search session not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that")
	case errors.Is(err, ErrEndOfResults):
		response.Error(c, http.StatusConflict, "END_OF_RESULTS", "No more results in this direction")
	default:
		h.log.Error("search request failed", "error", err)
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
