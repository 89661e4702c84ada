package services

import (
	"context"
	"strings"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/llm"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/textproc"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const attachmentPromptRunes = 4000

type ChatConfig struct {
	SimilarLimit      int
	SimilarCandidates int
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
}

func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		SimilarLimit:      3,
		SimilarCandidates: 50,
		Temperature:       0.7,
		MaxTokens:         500,
		Timeout:           30 * time.Second,
	}
}

// ChatInput is one inbound chat turn. Attachment is optional.
type ChatInput struct {
	Message    string
	Attachment *tutor.Attachment
}

type ChatResult struct {
	Response        string
	ChatID          uint
	ComplexityLevel int
	Topic           string
	Similar         int
}

// ChatService answers a student message with a prompt tailored to their
// archetype, progress and similar helpful exchanges.
type ChatService struct {
	interactions models.InteractionRepository
	progress     *ProgressService
	topics       *tutor.TopicExtractor
	similarity   *tutor.SimilarityFinder
	text         *textproc.Processor
	provider     llm.Provider
	config       ChatConfig
	logger       *logrus.Logger
}

func NewChatService(
	interactions models.InteractionRepository,
	progress *ProgressService,
	topics *tutor.TopicExtractor,
	similarity *tutor.SimilarityFinder,
	provider llm.Provider,
	config ChatConfig,
	logger *logrus.Logger,
) *ChatService {
	return &ChatService{
		interactions: interactions,
		progress:     progress,
		topics:       topics,
		similarity:   similarity,
		text:         textproc.NewProcessor(),
		provider:     provider,
		config:       config,
		logger:       logger,
	}
}

// enrichment is what the concurrent analysis step produces.
type enrichment struct {
	topics  []string
	summary tutor.ProgressSummary
	similar []tutor.SimilarInteraction
}

// Send answers one chat turn and records it. LLM failures come back as
// apperr upstream errors carrying a user-facing message; the cause stays
// wrapped for logging.
func (s *ChatService) Send(ctx context.Context, user *models.User, input ChatInput) (*ChatResult, error) {
	message := strings.TrimSpace(input.Message)
	attachment := s.prepareAttachment(input.Attachment)
	if message == "" && attachment == nil {
		return nil, apperr.Validation("No se proporcionó ningún mensaje", "message")
	}

	log := s.logger.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"message_words":  s.text.CountWords(message),
		"has_attachment": attachment != nil,
	})

	analysisText := message
	if analysisText == "" {
		analysisText = attachment.Content
	}

	enriched, err := s.enrich(ctx, user.ID, analysisText)
	if err != nil {
		log.WithError(err).Error("Failed to enrich chat request")
		return nil, err
	}

	mainTopic := enriched.topics[0]
	mastery := enriched.summary.MasteryScores[mainTopic]
	target := tutor.TargetComplexity(enriched.summary, mastery)

	prompt := tutor.ComposeRequest(tutor.PromptRequest{
		Profile:          profileOf(user),
		Message:          s.text.Normalize(message),
		Summary:          enriched.summary,
		Similar:          enriched.similar,
		MainTopic:        mainTopic,
		CurrentMastery:   mastery,
		TargetComplexity: target,
		Attachment:       attachment,
	})

	llmCtx, cancel := context.WithTimeout(llm.WithUser(llm.WithPurpose(ctx, "chat"), user.ID), s.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Generate(llmCtx, llm.UserMessage(prompt.System, prompt.User, s.config.MaxTokens, s.config.Temperature))
	elapsed := time.Since(start)
	if err != nil {
		log.WithError(err).Error("LLM request failed")
		return nil, apperr.Upstream("El tutor no está disponible en este momento", err)
	}

	modelName := resp.Model
	if modelName == "" {
		modelName = s.provider.ModelID()
	}

	interaction := &models.Interaction{
		UserID:          user.ID,
		Message:         message,
		Response:        resp.Text,
		Topic:           mainTopic,
		ComplexityLevel: target,
		LearningPace:    enriched.summary.LearningPace,
		ResponseTime:    elapsed.Seconds(),
		Model:           modelName,
	}
	if attachment != nil {
		interaction.AttachmentName = attachment.Name
	}
	if err := s.interactions.Record(ctx, interaction); err != nil {
		log.WithError(err).Error("Failed to save interaction")
		return nil, apperr.Persistence("failed to save interaction", err)
	}

	s.progress.Invalidate(ctx, user.ID)

	log.WithFields(logrus.Fields{
		"chat_id":          interaction.ID,
		"topic":            mainTopic,
		"complexity_level": target,
		"similar":          len(enriched.similar),
		"response_time":    elapsed.Seconds(),
	}).Info("Chat response generated")

	return &ChatResult{
		Response:        resp.Text,
		ChatID:          interaction.ID,
		ComplexityLevel: target,
		Topic:           mainTopic,
		Similar:         len(enriched.similar),
	}, nil
}

// enrich runs topic extraction, progress analysis and similarity search
// concurrently and joins their results.
func (s *ChatService) enrich(ctx context.Context, userID uint, text string) (*enrichment, error) {
	var out enrichment
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out.topics = s.topics.Extract(text)
		return nil
	})

	g.Go(func() error {
		summary, err := s.progress.Summary(gctx, userID)
		if err != nil {
			return err
		}
		out.summary = summary
		return nil
	})

	g.Go(func() error {
		helpful, err := s.interactions.RecentHelpfulByUser(gctx, userID, s.config.SimilarCandidates)
		if err != nil {
			return apperr.Persistence("failed to load helpful interactions", err)
		}
		out.similar = s.similarity.FindSimilar(text, toRecords(helpful), s.config.SimilarLimit)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ChatService) prepareAttachment(a *tutor.Attachment) *tutor.Attachment {
	if a == nil {
		return nil
	}
	content := s.text.CleanAttachment(a.Content)
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return &tutor.Attachment{
		Name:    a.Name,
		Content: s.text.Excerpt(content, attachmentPromptRunes),
	}
}
