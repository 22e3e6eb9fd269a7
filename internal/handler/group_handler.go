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

// GroupHandler handles groups, memberships and channels.
type GroupHandler struct {
	groupService   service.GroupService
	authMiddleware *middleware.AuthMiddleware
}

func NewGroupHandler(groupService service.GroupService, authMiddleware *middleware.AuthMiddleware) *GroupHandler {
	return &GroupHandler{
		groupService:   groupService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers group routes.
func (h *GroupHandler) RegisterRoutes(api *gin.RouterGroup) {
	groups := api.Group("/groups")
	groups.Use(h.authMiddleware.RequireAuth())
	{
		groups.POST("", h.Create)
		groups.GET("", h.List)
		groups.GET("/mine", h.ListMine)
		groups.GET("/:groupId", h.Get)
		groups.POST("/:groupId/join", h.Join)
		groups.POST("/:groupId/leave", h.Leave)
		groups.GET("/:groupId/members", h.Members)
		groups.POST("/:groupId/channels", h.CreateChannel)
		groups.GET("/:groupId/channels", h.ListChannels)
	}
}

// Create creates a group owned by the caller.
func (h *GroupHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create group request")
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(ctx, middleware.GetUserID(c), &req)
	if err != nil {
		l.Error().Err(err).Msg("create group failed")
		response.InternalError(c, "failed to create group")
		return
	}
	response.Created(c, group)
}

// List returns all groups.
func (h *GroupHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	groups, err := h.groupService.ListGroups(ctx, middleware.GetUserID(c))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("list groups failed")
		response.InternalError(c, "failed to list groups")
		return
	}
	response.Success(c, groups)
}

// ListMine returns the caller's groups.
func (h *GroupHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	groups, err := h.groupService.ListMyGroups(ctx, middleware.GetUserID(c))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("list my groups failed")
		response.InternalError(c, "failed to list groups")
		return
	}
	response.Success(c, groups)
}

// Get returns one group with channels and member count.
func (h *GroupHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.groupService.GetGroup(ctx, c.Param("groupId"), middleware.GetUserID(c))
	if err != nil {
		h.handleGroupError(c, err, "get group failed")
		return
	}
	response.Success(c, group)
}

// Join adds the caller to a group.
func (h *GroupHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.groupService.JoinGroup(ctx, c.Param("groupId"), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			response.Conflict(c, "already a member")
			return
		}
		h.handleGroupError(c, err, "join group failed")
		return
	}
	response.Success(c, gin.H{"message": "joined"})
}

// Leave removes the caller from a group.
func (h *GroupHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.groupService.LeaveGroup(ctx, c.Param("groupId"), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.Forbidden(c, "the owner cannot leave their group")
			return
		}
		if errors.Is(err, repository.ErrNotMember) {
			response.Conflict(c, "not a member")
			return
		}
		h.handleGroupError(c, err, "leave group failed")
		return
	}
	response.Success(c, gin.H{"message": "left"})
}

// Members lists a group's members.
func (h *GroupHandler) Members(c *gin.Context) {
	ctx := c.Request.Context()
	members, err := h.groupService.ListMembers(ctx, c.Param("groupId"))
	if err != nil {
		h.handleGroupError(c, err, "list members failed")
		return
	}
	response.Success(c, members)
}

// CreateChannel adds a channel to a group. Admins only.
func (h *GroupHandler) CreateChannel(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create channel request")
		response.BadRequest(c, err.Error())
		return
	}

	channel, err := h.groupService.CreateChannel(ctx, c.Param("groupId"), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.Forbidden(c, "only group admins can create channels")
			return
		}
		h.handleGroupError(c, err, "create channel failed")
		return
	}
	response.Created(c, channel)
}

// ListChannels lists a group's channels.
func (h *GroupHandler) ListChannels(c *gin.Context) {
	ctx := c.Request.Context()
	channels, err := h.groupService.ListChannels(ctx, c.Param("groupId"))
	if err != nil {
		h.handleGroupError(c, err, "list channels failed")
		return
	}
	response.Success(c, channels)
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error, msg string) {
	if errors.Is(err, repository.ErrGroupNotFound) {
		response.NotFound(c, "group not found")
		return
	}
	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Msg(msg)
	response.InternalError(c, "request failed")
}
