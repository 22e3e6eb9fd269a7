package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/middleware"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/response"
)

// ProfileHandler handles the preference quiz and group suggestions.
type ProfileHandler struct {
	profileService service.ProfileService
	authMiddleware *middleware.AuthMiddleware
}

func NewProfileHandler(profileService service.ProfileService, authMiddleware *middleware.AuthMiddleware) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers profile routes.
func (h *ProfileHandler) RegisterRoutes(api *gin.RouterGroup) {
	profile := api.Group("/profile")
	profile.Use(h.authMiddleware.RequireAuth())
	{
		profile.POST("/quiz", h.SubmitQuiz)
		profile.GET("/suggestions", h.Suggestions)
	}
}

// SubmitQuiz classifies quiz answers into stored interests.
func (h *ProfileHandler) SubmitQuiz(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid quiz request")
		response.BadRequest(c, err.Error())
		return
	}

	interests, err := h.profileService.SubmitQuiz(ctx, middleware.GetUserID(c), req.Answers)
	if err != nil {
		l.Error().Err(err).Msg("quiz submission failed")
		response.InternalError(c, "failed to process quiz")
		return
	}
	response.Success(c, gin.H{"interests": interests})
}

// Suggestions recommends groups for the user's interests.
func (h *ProfileHandler) Suggestions(c *gin.Context) {
	ctx := c.Request.Context()
	groups, err := h.profileService.SuggestGroups(ctx, middleware.GetUserID(c))
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("group suggestion failed")
		response.InternalError(c, "failed to suggest groups")
		return
	}
	response.Success(c, groups)
}
