package notification

import (
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
	rg.GET("/notifications", h.List)
	rg.POST("/notifications/:id/read", h.MarkAsRead)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.service.ListForUser(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		h.log.Error("notification list failed", "error", err)
		response.Retry(c)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		h.log.Error("notification mark-as-read failed", "error", err)
		response.Retry(c)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}
