package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_FullFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "ana@example.com")
	chat := f.seed(t, user.ID, "¿Qué es una fracción?", nil, nil, time.Now())

	result, err := f.feedback.Submit(ctx, user.ID, FeedbackInput{ChatID: chat.ID, Helpful: boolPtr(true), Understanding: intPtr(5)})
	require.NoError(t, err)
	require.NotNil(t, result.InteractionQuality)
	assert.InDelta(t, 1.0, *result.InteractionQuality, 1e-9)

	stored, err := f.repos.Interaction.GetForUser(ctx, user.ID, chat.ID)
	require.NoError(t, err)
	assert.True(t, *stored.Helpful)
	assert.Equal(t, 5, *stored.Understanding)
	assert.InDelta(t, 1.0, *stored.InteractionQuality, 1e-9)
	assert.Contains(t, f.cache.invalidated, user.ID)
}

func TestFeedbackService_PartialUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "beto@example.com")
	chat := f.seed(t, user.ID, "¿Qué es una derivada?", nil, nil, time.Now())

	result, err := f.feedback.Submit(ctx, user.ID, FeedbackInput{ChatID: chat.ID, Helpful: boolPtr(false)})
	require.NoError(t, err)
	assert.Nil(t, result.InteractionQuality)
	assert.Nil(t, result.Understanding)

	result, err = f.feedback.Submit(ctx, user.ID, FeedbackInput{ChatID: chat.ID, Understanding: intPtr(3)})
	require.NoError(t, err)
	require.NotNil(t, result.Helpful)
	assert.False(t, *result.Helpful)
	require.NotNil(t, result.InteractionQuality)
	assert.InDelta(t, 0.3, *result.InteractionQuality, 1e-9)
}

func TestFeedbackService_ConcurrentHalvesSetQuality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "dani@example.com")
	chat := f.seed(t, user.ID, "¿Qué es un polígono?", nil, nil, time.Now())

	inputs := []FeedbackInput{
		{ChatID: chat.ID, Helpful: boolPtr(true)},
		{ChatID: chat.ID, Understanding: intPtr(4)},
	}
	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.feedback.Submit(ctx, user.ID, in)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.repos.Interaction.GetForUser(ctx, user.ID, chat.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.InteractionQuality)
	assert.InDelta(t, 0.9, *stored.InteractionQuality, 1e-9)
}

func TestFeedbackService_Validation(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "carla@example.com")
	chat := f.seed(t, user.ID, "hola", nil, nil, time.Now())

	cases := []FeedbackInput{
		{Helpful: boolPtr(true)},
		{ChatID: chat.ID},
		{ChatID: chat.ID, Understanding: intPtr(0)},
		{ChatID: chat.ID, Understanding: intPtr(6)},
	}
	for _, in := range cases {
		_, err := f.feedback.Submit(context.Background(), user.ID, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "input %+v", in)
	}
}

func TestFeedbackService_OtherUsersChatIsNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	chat := f.seed(t, owner.ID, "¿Qué es el álgebra?", nil, nil, time.Now())

	_, err := f.feedback.Submit(context.Background(), other.ID, FeedbackInput{ChatID: chat.ID, Helpful: boolPtr(true)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.feedback.Submit(context.Background(), owner.ID, FeedbackInput{ChatID: 9999, Helpful: boolPtr(true)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestInteractionQuality(t *testing.T) {
	assert.Nil(t, InteractionQuality(nil, intPtr(3)))
	assert.Nil(t, InteractionQuality(boolPtr(true), nil))
	assert.InDelta(t, 0.8, *InteractionQuality(boolPtr(true), intPtr(3)), 1e-9)
	assert.InDelta(t, 0.1, *InteractionQuality(boolPtr(false), intPtr(1)), 1e-9)
}
