package services

import (
	"context"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/samber/lo"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

type HistoryService struct {
	interactions models.InteractionRepository
}

func NewHistoryService(interactions models.InteractionRepository) *HistoryService {
	return &HistoryService{interactions: interactions}
}

// Recent returns the user's latest exchanges, newest first. Non-positive
// limits use the default; large ones are capped.
func (s *HistoryService) Recent(ctx context.Context, userID uint, limit int) ([]models.HistoryItem, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	interactions, err := s.interactions.RecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Persistence("failed to load chat history", err)
	}

	return lo.Map(interactions, func(i models.Interaction, _ int) models.HistoryItem {
		return models.HistoryItem{
			ID:              i.ID,
			Message:         i.Message,
			Response:        i.Response,
			Timestamp:       i.CreatedAt.UTC().Format(time.RFC3339),
			Topic:           i.Topic,
			ComplexityLevel: i.ComplexityLevel,
			Helpful:         i.Helpful,
			Understanding:   i.Understanding,
			Attachment:      i.AttachmentName,
		}
	}), nil
}
