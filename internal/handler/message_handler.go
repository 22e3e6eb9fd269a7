package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BlackEmpir7199/StudySphere/internal/middleware"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/response"
)

// MessageHandler serves paginated channel history over HTTP.
type MessageHandler struct {
	historyService service.HistoryService
	authMiddleware *middleware.AuthMiddleware
}

func NewMessageHandler(historyService service.HistoryService, authMiddleware *middleware.AuthMiddleware) *MessageHandler {
	return &MessageHandler{
		historyService: historyService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers history routes.
func (h *MessageHandler) RegisterRoutes(api *gin.RouterGroup) {
	channels := api.Group("/channels")
	channels.Use(h.authMiddleware.RequireAuth())
	{
		channels.GET("/:channelId/messages", h.History)
	}
}

// History returns a page of messages, oldest first. The optional
// "before" query is an RFC 3339 timestamp for paging backwards.
func (h *MessageHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	channelID := c.Param("channelId")

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			response.BadRequest(c, "before must be an RFC 3339 timestamp")
			return
		}
		before = parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	page, err := h.historyService.GetHistory(ctx, channelID, before, limit)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldChannelID, channelID).Msg("history fetch failed")
		response.InternalError(c, "failed to load history")
		return
	}
	response.Success(c, page)
}
