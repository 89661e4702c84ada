package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestFindSimilar_EmptyHistory(t *testing.T) {
	got := FindSimilar("fracciones", nil, 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindSimilar_OnlyHelpfulCandidates(t *testing.T) {
	history := []Record{
		{ID: 1, Message: "sumar fracciones", Helpful: boolPtr(false)},
		{ID: 2, Message: "sumar fracciones"},
	}
	assert.Empty(t, FindSimilar("sumar fracciones", history, 3))
}

func TestFindSimilar_RanksAboveThreshold(t *testing.T) {
	history := []Record{
		{ID: 1, Message: "historia del imperio romano", Helpful: boolPtr(true)},
		{ID: 2, Message: "fracciones equivalentes", Helpful: boolPtr(true)},
		{ID: 3, Message: "cómo sumar fracciones con distinto denominador", Helpful: boolPtr(true)},
	}

	got := FindSimilar("sumar fracciones con distinto denominador", history, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, uint(3), got[0].Record.ID)

	for i, s := range got {
		assert.Greater(t, s.Similarity, DefaultSimilarityThreshold)
		assert.LessOrEqual(t, s.Similarity, 1.0)
		assert.NotEqual(t, uint(1), s.Record.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Similarity, s.Similarity)
		}
	}
}

func TestFindSimilar_LimitAndStableTies(t *testing.T) {
	history := []Record{
		{ID: 1, Message: "fracciones equivalentes", Helpful: boolPtr(true)},
		{ID: 2, Message: "fracciones equivalentes", Helpful: boolPtr(true)},
		{ID: 3, Message: "fracciones equivalentes", Helpful: boolPtr(true)},
	}

	got := FindSimilar("fracciones equivalentes", history, 2)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].Record.ID)
	assert.Equal(t, uint(2), got[1].Record.ID)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)

	assert.Empty(t, FindSimilar("fracciones equivalentes", history, 0))
}

func TestSimilarityFinder_Threshold(t *testing.T) {
	history := []Record{
		{ID: 1, Message: "fracciones equivalentes y decimales", Helpful: boolPtr(true)},
	}

	strict := NewSimilarityFinder(0.99)
	assert.Empty(t, strict.FindSimilar("fracciones", history, 3))

	loose := NewSimilarityFinder(0.1)
	assert.Len(t, loose.FindSimilar("fracciones", history, 3), 1)
}
