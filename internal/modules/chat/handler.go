package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service *Service
	hub     *Hub
	log     logger.Logger
}

func NewHandler(service *Service, hub *Hub, log logger.Logger) *Handler {
	return &Handler{service: service, hub: hub, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/chat", h.History)
	rg.POST("/bookings/:id/chat", h.Send)
	rg.GET("/ws/bookings/:id/chat", h.Connect)
}

type sendBody struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) Send(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	msg, err := h.service.Send(c.Request.Context(), bookingID, c.GetInt64("user_id"), body.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) History(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.service.History(c.Request.Context(), bookingID, c.GetInt64("user_id"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

// Connect upgrades to a websocket and keeps the user reachable for live
// message pushes. Inbound frames are sent through the same path as the HTTP
// endpoint.
func (h *Handler) Connect(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	userID := c.GetInt64("user_id")

	if err := h.service.Authorize(c.Request.Context(), bookingID, userID); err != nil {
		h.writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	for {
		var body sendBody
		if err := conn.ReadJSON(&body); err != nil {
			return
		}
		msg, err := h.service.Send(c.Request.Context(), bookingID, userID, body.Text)
		if err != nil {
			_ = conn.WriteJSON(gin.H{"error": err.Error()})
			continue
		}
		_ = conn.WriteJSON(msg)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "message text is empty")
	case errors.Is(err, ErrChatLocked):
		response.Error(c, http.StatusConflict, "CHAT_LOCKED", "Chat opens once the owner confirms the booking")
	case errors.Is(err, ErrNotAParty):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the guest and the owner may use this chat")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	default:
		h.log.Error("chat request failed", "error", err)
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
