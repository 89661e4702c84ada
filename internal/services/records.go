package services

import (
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/samber/lo"
)

func toRecord(i models.Interaction) tutor.Record {
	return tutor.Record{
		ID:              i.ID,
		Message:         i.Message,
		Response:        i.Response,
		CreatedAt:       i.CreatedAt,
		Helpful:         i.Helpful,
		Understanding:   i.Understanding,
		Topic:           i.Topic,
		ComplexityLevel: i.ComplexityLevel,
	}
}

func toRecords(interactions []models.Interaction) []tutor.Record {
	return lo.Map(interactions, func(i models.Interaction, _ int) tutor.Record {
		return toRecord(i)
	})
}

// profileOf returns the user's archetype, or "" while unclassified.
func profileOf(user *models.User) tutor.Profile {
	if user == nil || user.ProfileLabel == nil {
		return ""
	}
	return tutor.Profile(*user.ProfileLabel)
}
