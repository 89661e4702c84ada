package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/internal/llm"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/repository"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process ProgressCache.
type memoryCache struct {
	mu          sync.Mutex
	entries     map[uint][]byte
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[uint][]byte{}}
}

func (c *memoryCache) CacheProgress(_ context.Context, userID uint, summary interface{}, _ time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = data
	return nil
}

func (c *memoryCache) GetCachedProgress(_ context.Context, userID uint, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[userID]
	if !ok {
		return database.ErrCacheMiss
	}
	return json.Unmarshal(data, out)
}

func (c *memoryCache) InvalidateProgress(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func (c *memoryCache) has(userID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[userID]
	return ok
}

type fixture struct {
	repos    *repository.RepositoryManager
	cache    *memoryCache
	provider *llm.MockProvider
	progress *ProgressService
	chat     *ChatService
	feedback *FeedbackService
	profile  *ProfileService
	history  *HistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", "silent", utils.DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	logger := utils.DiscardLogger()
	repos := repository.NewRepositoryManager(db)
	cache := newMemoryCache()
	provider := llm.NewMockProvider()
	topics := tutor.NewTopicExtractor()

	progress := NewProgressService(repos.Interaction, tutor.NewAnalyzer(tutor.DefaultHistoryWindow, topics), cache, time.Minute, logger)

	return &fixture{
		repos:    repos,
		cache:    cache,
		provider: provider,
		progress: progress,
		chat: NewChatService(repos.Interaction, progress, topics,
			tutor.NewSimilarityFinder(tutor.DefaultSimilarityThreshold), provider, DefaultChatConfig(), logger),
		feedback: NewFeedbackService(repos.Interaction, progress, logger),
		profile:  NewProfileService(repos.User, repos.Questionnaire, logger),
		history:  NewHistoryService(repos.Interaction),
	}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, f.repos.User.Create(context.Background(), user))
	return user
}

// seed stores an interaction directly, bypassing the LLM.
func (f *fixture) seed(t *testing.T, userID uint, message string, helpful *bool, understanding *int, createdAt time.Time) *models.Interaction {
	t.Helper()
	i := &models.Interaction{
		UserID:          userID,
		Message:         message,
		Response:        fmt.Sprintf("respuesta a %q", message),
		Helpful:         helpful,
		Understanding:   understanding,
		Topic:           tutor.NewTopicExtractor().MainTopic(message),
		ComplexityLevel: 2,
	}
	i.CreatedAt = createdAt
	require.NoError(t, f.repos.Interaction.Record(context.Background(), i))
	return i
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
