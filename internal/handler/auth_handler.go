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

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService    service.AuthService
	authMiddleware *middleware.AuthMiddleware
}

func NewAuthHandler(authService service.AuthService, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.authMiddleware.RequireAuth(), h.Me)
	}
}

// Register handles account creation.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			response.Conflict(c, "email already registered")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	h.authMiddleware.SetAuthCookie(c, token)
	response.Created(c, gin.H{"user": user, "token": token})
}

// Login handles credential login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	h.authMiddleware.SetAuthCookie(c, token)
	response.Success(c, gin.H{"user": user, "token": token})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authMiddleware.ClearAuthCookie(c)
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.authService.GetUser(ctx, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("get current user failed")
		response.InternalError(c, "failed to load user")
		return
	}
	response.Success(c, user)
}
