package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/middleware"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/services"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	profileService  *services.ProfileService
	progressService *services.ProgressService
	logger          *logrus.Logger
}

func NewProfileHandler(profileService *services.ProfileService, progressService *services.ProgressService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		progressService: progressService,
		logger:          logger,
	}
}

// HandleQuestions lists the questionnaire keys in order.
func (h *ProfileHandler) HandleQuestions(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Questionnaire retrieved", gin.H{
		"questions": tutor.Questions(),
		"answers":   []string{"A", "B", "C", "D"},
	})
}

func (h *ProfileHandler) HandleSubmitQuestionnaire(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	var req models.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, apperr.Validation("No data provided"))
		return
	}

	result, err := h.profileService.SubmitQuestionnaire(c.Request.Context(), user.ID, req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Questionnaire processed successfully", result)
}

func (h *ProfileHandler) HandleGetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	profile, err := h.profileService.Profile(c.Request.Context(), user.ID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved", profile)
}

func (h *ProfileHandler) HandleProgress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	summary, err := h.progressService.Summary(c.Request.Context(), user.ID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Progress retrieved", summary)
}
