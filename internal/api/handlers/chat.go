package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/middleware"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/services"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 1 << 20

type ChatHandler struct {
	chatService     *services.ChatService
	feedbackService *services.FeedbackService
	historyService  *services.HistoryService
	maxAttachment   int64
	logger          *logrus.Logger
}

func NewChatHandler(
	chatService *services.ChatService,
	feedbackService *services.FeedbackService,
	historyService *services.HistoryService,
	maxAttachment int64,
	logger *logrus.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatService:     chatService,
		feedbackService: feedbackService,
		historyService:  historyService,
		maxAttachment:   maxAttachment,
		logger:          logger,
	}
}

// HandleChat answers a message sent as JSON or as a multipart form with an
// optional text file. Provider failures answer 502 with a fixed Spanish
// message; the provider's own error text is logged, never returned.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	input, err := h.bindChat(c)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	result, err := h.chatService.Send(c.Request.Context(), user, input)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:        result.Response,
		ChatID:          result.ChatID,
		ComplexityLevel: result.ComplexityLevel,
	})
}

func (h *ChatHandler) bindChat(c *gin.Context) (services.ChatInput, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.ChatInput{}, apperr.Validation("Invalid request format", "message")
		}
		return services.ChatInput{Message: req.Message}, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAttachment+multipartOverhead)

	input := services.ChatInput{Message: c.PostForm("message")}

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, apperr.Validation("Invalid multipart form", "file")
	}
	if fh.Size > h.maxAttachment {
		return input, apperr.Validation("File too large (max "+strconv.FormatInt(h.maxAttachment/1024, 10)+" KiB)", "file")
	}

	f, err := fh.Open()
	if err != nil {
		return input, apperr.Validation("Could not read uploaded file", "file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxAttachment+1))
	if err != nil {
		return input, apperr.Validation("Could not read uploaded file", "file")
	}
	if int64(len(data)) > h.maxAttachment {
		return input, apperr.Validation("File too large", "file")
	}
	if !utf8.Valid(data) {
		return input, apperr.Validation("File must be UTF-8 text", "file")
	}

	input.Attachment = &tutor.Attachment{
		Name:    filepath.Base(fh.Filename),
		Content: string(data),
	}
	return input, nil
}

// HandleFeedback records thumbs and/or understanding for a chat.
func (h *ChatHandler) HandleFeedback(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, apperr.Validation("Invalid feedback format", "chat_id"))
		return
	}

	result, err := h.feedbackService.Submit(c.Request.Context(), user.ID, services.FeedbackInput{
		ChatID:        req.ChatID,
		Helpful:       req.Helpful,
		Understanding: req.Understanding,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FeedbackResponse{
		Success:            true,
		ChatID:             result.ChatID,
		Helpful:            result.Helpful,
		Understanding:      result.Understanding,
		InteractionQuality: result.InteractionQuality,
	})
}

// HandleHistory returns the latest exchanges, newest first.
func (h *ChatHandler) HandleHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		RespondError(c, h.logger, apperr.Unauthorized("Token is missing", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))

	items, err := h.historyService.Recent(c.Request.Context(), user.ID, limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
