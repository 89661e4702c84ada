package services

import (
	"context"
	"errors"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FeedbackInput struct {
	ChatID        uint
	Helpful       *bool
	Understanding *int
}

// FeedbackResult holds the interaction's feedback after the update.
type FeedbackResult struct {
	ChatID             uint
	Helpful            *bool
	Understanding      *int
	InteractionQuality *float64
}

type FeedbackService struct {
	interactions models.InteractionRepository
	progress     *ProgressService
	logger       *logrus.Logger
}

func NewFeedbackService(interactions models.InteractionRepository, progress *ProgressService, logger *logrus.Logger) *FeedbackService {
	return &FeedbackService{
		interactions: interactions,
		progress:     progress,
		logger:       logger,
	}
}

// Submit records helpfulness and/or understanding for one of the user's
// interactions. Either field may be sent alone; the quality score is set
// once both are known.
func (s *FeedbackService) Submit(ctx context.Context, userID uint, in FeedbackInput) (*FeedbackResult, error) {
	if in.ChatID == 0 {
		return nil, apperr.Validation("chat_id is required", "chat_id")
	}
	if in.Helpful == nil && in.Understanding == nil {
		return nil, apperr.Validation("helpful or understanding is required", "helpful", "understanding")
	}
	if in.Understanding != nil && (*in.Understanding < 1 || *in.Understanding > 5) {
		return nil, apperr.Validation("understanding must be between 1 and 5", "understanding")
	}

	update := models.FeedbackUpdate{Helpful: in.Helpful, Understanding: in.Understanding}
	interaction, err := s.interactions.ApplyFeedback(ctx, userID, in.ChatID, update, InteractionQuality)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Interaction not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to save feedback", err)
	}

	s.progress.Invalidate(ctx, userID)

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"chat_id": interaction.ID,
	}).Info("Feedback recorded")

	return &FeedbackResult{
		ChatID:             interaction.ID,
		Helpful:            interaction.Helpful,
		Understanding:      interaction.Understanding,
		InteractionQuality: interaction.InteractionQuality,
	}, nil
}

// InteractionQuality averages helpfulness (0 or 1) with understanding/5.
// It is nil until both values are known.
func InteractionQuality(helpful *bool, understanding *int) *float64 {
	if helpful == nil || understanding == nil {
		return nil
	}
	h := 0.0
	if *helpful {
		h = 1
	}
	q := (h + float64(*understanding)/5) / 2
	return &q
}
