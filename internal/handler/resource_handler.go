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

// ResourceHandler handles shared study materials.
type ResourceHandler struct {
	resourceService service.ResourceService
	authMiddleware  *middleware.AuthMiddleware
}

func NewResourceHandler(resourceService service.ResourceService, authMiddleware *middleware.AuthMiddleware) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers resource routes.
func (h *ResourceHandler) RegisterRoutes(api *gin.RouterGroup) {
	channels := api.Group("/channels")
	channels.Use(h.authMiddleware.RequireAuth())
	{
		channels.POST("/:channelId/resources", h.CreateLink)
		channels.POST("/:channelId/resources/upload", h.Upload)
		channels.GET("/:channelId/resources", h.List)
	}

	resources := api.Group("/resources")
	resources.Use(h.authMiddleware.RequireAuth())
	{
		resources.POST("/:resourceId/summarize", h.Summarize)
		resources.DELETE("/:resourceId", h.Delete)
	}
}

type createLinkRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required,url"`
}

// CreateLink shares an external link in a channel.
func (h *ResourceHandler) CreateLink(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create resource request")
		response.BadRequest(c, err.Error())
		return
	}

	resource, err := h.resourceService.CreateLink(ctx, c.Param("channelId"), middleware.GetUserID(c), middleware.GetEmail(c), req.Title, req.URL)
	if err != nil {
		h.handleResourceError(c, err, "create resource failed")
		return
	}
	response.Created(c, resource)
}

// Upload stores a file and shares it in a channel. Multipart form with
// a "file" part and an optional "title" field.
func (h *ResourceHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	title := c.PostForm("title")

	resource, err := h.resourceService.Upload(ctx, c.Param("channelId"), middleware.GetUserID(c), middleware.GetEmail(c), title, file)
	if err != nil {
		h.handleResourceError(c, err, "upload resource failed")
		return
	}
	response.Created(c, resource)
}

// List returns a channel's resources, newest first.
func (h *ResourceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	resources, err := h.resourceService.List(ctx, c.Param("channelId"))
	if err != nil {
		h.handleResourceError(c, err, "list resources failed")
		return
	}
	response.Success(c, resources)
}

// Summarize generates and stores a summary from extracted text.
func (h *ResourceHandler) Summarize(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid summarize request")
		response.BadRequest(c, err.Error())
		return
	}

	resource, err := h.resourceService.Summarize(ctx, c.Param("resourceId"), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrSummaryUnavailable) {
			response.Error(c, 503, "SUMMARY_UNAVAILABLE", "summarization is not configured")
			return
		}
		h.handleResourceError(c, err, "summarize resource failed")
		return
	}
	response.Success(c, resource)
}

// Delete removes a resource. Uploader only.
func (h *ResourceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.resourceService.Delete(ctx, c.Param("resourceId"), middleware.GetUserID(c)); err != nil {
		h.handleResourceError(c, err, "delete resource failed")
		return
	}
	response.Success(c, gin.H{"message": "deleted"})
}

func (h *ResourceHandler) handleResourceError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrResourceRejected):
		response.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrChannelNotFound):
		response.NotFound(c, "channel not found")
	case errors.Is(err, repository.ErrResourceNotFound):
		response.NotFound(c, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "only the uploader can delete this resource")
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg(msg)
		response.InternalError(c, "request failed")
	}
}
