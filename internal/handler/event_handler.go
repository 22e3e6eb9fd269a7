package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/middleware"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/response"
)

// EventHandler handles scheduled study sessions.
type EventHandler struct {
	eventService   service.EventService
	authMiddleware *middleware.AuthMiddleware
}

func NewEventHandler(eventService service.EventService, authMiddleware *middleware.AuthMiddleware) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers event routes.
func (h *EventHandler) RegisterRoutes(api *gin.RouterGroup) {
	channels := api.Group("/channels")
	channels.Use(h.authMiddleware.RequireAuth())
	{
		channels.POST("/:channelId/events", h.Create)
		channels.GET("/:channelId/events", h.List)
	}

	events := api.Group("/events")
	events.Use(h.authMiddleware.RequireAuth())
	{
		events.PATCH("/:eventId", h.Update)
		events.DELETE("/:eventId", h.Delete)
	}
}

// Create schedules a study session in a channel.
func (h *EventHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create event request")
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(ctx, c.Param("channelId"), middleware.GetUserID(c), middleware.GetEmail(c), &req)
	if err != nil {
		h.handleEventError(c, err, "create event failed")
		return
	}
	response.Created(c, event)
}

// List returns a channel's events, soonest first.
func (h *EventHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := h.eventService.List(ctx, c.Param("channelId"))
	if err != nil {
		h.handleEventError(c, err, "list events failed")
		return
	}
	response.Success(c, events)
}

// Update patches an event. Creator only.
func (h *EventHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update event request")
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Update(ctx, c.Param("eventId"), middleware.GetUserID(c), &req)
	if err != nil {
		h.handleEventError(c, err, "update event failed")
		return
	}
	response.Success(c, event)
}

// Delete removes an event. Creator only.
func (h *EventHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.eventService.Delete(ctx, c.Param("eventId"), middleware.GetUserID(c)); err != nil {
		h.handleEventError(c, err, "delete event failed")
		return
	}
	response.Success(c, gin.H{"message": "deleted"})
}

func (h *EventHandler) handleEventError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, repository.ErrChannelNotFound):
		response.NotFound(c, "channel not found")
	case errors.Is(err, repository.ErrEventNotFound):
		response.NotFound(c, "event not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "only the creator can modify this event")
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg(msg)
		response.InternalError(c, "request failed")
	}
}
