package services

import (
	"context"
	"errors"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProfileService handles the learning-profile questionnaire and the
// student's profile view.
type ProfileService struct {
	users         models.UserRepository
	questionnaire models.QuestionnaireRepository
	logger        *logrus.Logger
}

func NewProfileService(users models.UserRepository, questionnaire models.QuestionnaireRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		users:         users,
		questionnaire: questionnaire,
		logger:        logger,
	}
}

// SubmitQuestionnaire classifies the answers and stores them with the
// resulting label. A second submission is a conflict.
func (s *ProfileService) SubmitQuestionnaire(ctx context.Context, userID uint, req models.QuestionnaireRequest) (*models.QuestionnaireResponse, error) {
	answers := answersFrom(req)
	result, err := tutor.Classify(answers)
	if err != nil {
		return nil, err
	}

	row := &models.QuestionnaireAnswer{
		UserID:             userID,
		StudyTime:          answers[tutor.QuestionStudyTime],
		SessionDuration:    answers[tutor.QuestionSessionDuration],
		LearningPace:       answers[tutor.QuestionLearningPace],
		LearningStyle:      answers[tutor.QuestionLearningStyle],
		ContentFormat:      answers[tutor.QuestionContentFormat],
		FeedbackPreference: answers[tutor.QuestionFeedbackPreference],
		LearningGoals:      answers[tutor.QuestionLearningGoals],
		Motivators:         answers[tutor.QuestionMotivators],
		Challenges:         answers[tutor.QuestionChallenges],
		InterestAreas:      answers[tutor.QuestionInterestAreas],
		ExperienceLevel:    answers[tutor.QuestionExperienceLevel],
		LearningTools:      answers[tutor.QuestionLearningTools],
		ProfileLabel:       string(result.Profile),
	}

	switch err := s.questionnaire.Submit(ctx, row); {
	case errors.Is(err, models.ErrAlreadySubmitted):
		return nil, apperr.Conflict("Questionnaire already submitted")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.NotFound("User not found")
	case err != nil:
		return nil, apperr.Persistence("failed to save questionnaire", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"profile": result.Profile,
	}).Info("Questionnaire submitted")

	scores := make(map[string]int, len(result.Scores))
	for profile, score := range result.Scores {
		scores[string(profile)] = score
	}

	return &models.QuestionnaireResponse{
		Profile: string(result.Profile),
		Scores:  scores,
	}, nil
}

func (s *ProfileService) Profile(ctx context.Context, userID uint) (*models.UserProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load user", err)
	}

	return &models.UserProfileResponse{
		ID:                     user.ID,
		Email:                  user.Email,
		ProfileLabel:           user.ProfileLabel,
		QuestionnaireCompleted: user.QuestionnaireCompleted,
		InteractionCount:       user.InteractionCount,
	}, nil
}

func answersFrom(req models.QuestionnaireRequest) tutor.Answers {
	raw := tutor.Answers{
		tutor.QuestionStudyTime:          req.StudyTime,
		tutor.QuestionSessionDuration:    req.SessionDuration,
		tutor.QuestionLearningPace:       req.LearningPace,
		tutor.QuestionLearningStyle:      req.LearningStyle,
		tutor.QuestionContentFormat:      req.ContentFormat,
		tutor.QuestionFeedbackPreference: req.FeedbackPreference,
		tutor.QuestionLearningGoals:      req.LearningGoals,
		tutor.QuestionMotivators:         req.Motivators,
		tutor.QuestionChallenges:         req.Challenges,
		tutor.QuestionInterestAreas:      req.InterestAreas,
		tutor.QuestionExperienceLevel:    req.ExperienceLevel,
		tutor.QuestionLearningTools:      req.LearningTools,
	}
	for key, answer := range raw {
		raw[key] = tutor.NormalizeAnswer(answer)
	}
	return raw
}
