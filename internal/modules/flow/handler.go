package flow

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentora/internal/domain"
	"rentora/internal/modules/booking"
	"rentora/internal/modules/search"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/response"
)

// BookingResolver is the slice of the booking service the action dispatcher
// needs for owner decisions arriving as button presses.
type BookingResolver interface {
	Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error)
	Decline(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error)
}

type Handler struct {
	service  *Service
	resolver BookingResolver
	log      logger.Logger
}

func NewHandler(service *Service, resolver BookingResolver, log logger.Logger) *Handler {
	return &Handler{service: service, resolver: resolver, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/flow/start", h.Start)
	rg.POST("/flow/message", h.Message)
	rg.POST("/flow/action", h.Action)
}

type messageBody struct {
	Text string `json:"text" binding:"required"`
}

type actionBody struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) Start(c *gin.Context) {
	reply := h.service.Start(c.Request.Context(), c.GetInt64("user_id"))
	response.Success(c, http.StatusOK, reply)
}

func (h *Handler) Message(c *gin.Context) {
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	reply, err := h.service.HandleText(c.Request.Context(), c.GetInt64("user_id"), body.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reply)
}

// Action decodes the raw callback identifier once and dispatches on the tag.
func (h *Handler) Action(c *gin.Context) {
	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	action, err := ParseAction(body.Action)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ACTION", err.Error())
		return
	}

	userID := c.GetInt64("user_id")
	ctx := c.Request.Context()

	switch action.Kind {
	case ActionConfirmBooking:
		b, err := h.resolver.Confirm(ctx, action.ID, userID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, &Reply{
			Text:    "Booking confirmed. Chat with the guest is now open.",
			Buttons: []Button{{Label: "Open chat", Action: fmt.Sprintf("chat_open_%d", b.ID)}},
			Done:    true,
			Booking: b,
		})
	case ActionDeclineBooking:
		b, err := h.resolver.Decline(ctx, action.ID, userID, body.Reason)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, &Reply{Text: "Booking declined.", Done: true, Booking: b})
	case ActionOpenChat:
		response.Success(c, http.StatusOK, &Reply{
			Text: fmt.Sprintf("Connect to /ws/bookings/%d/chat to talk.", action.ID),
		})
	default:
		reply, err := h.service.HandleAction(ctx, userID, action)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, reply)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoActiveFlow):
		response.Error(c, http.StatusConflict, "NO_ACTIVE_FLOW", "Start a search first")
	case errors.Is(err, booking.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, booking.ErrAlreadyResolved):
		response.Error(c, http.StatusConflict, "ALREADY_RESOLVED", "This booking was already settled")
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, search.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, booking.ErrForbidden), errors.Is(err, search.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do that")
	default:
		h.log.Error("flow request failed", "error", err)
		response.Retry(c)
	}
}
