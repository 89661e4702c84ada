package tutor

import (
	"math/rand"
	"testing"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(letter string) Answers {
	answers := Answers{}
	for _, q := range Questions() {
		answers[q] = letter
	}
	return answers
}

func TestClassify_UniformAnswers(t *testing.T) {
	tests := []struct {
		letter string
		want   Profile
		scores map[Profile]int
	}{
		{"A", Structured, map[Profile]int{Structured: 85, Explorer: 15, Intensive: 0}},
		{"B", Explorer, map[Profile]int{Structured: 15, Explorer: 85, Intensive: 0}},
		{"C", Intensive, map[Profile]int{Structured: 0, Explorer: 0, Intensive: 100}},
		{"D", Intensive, map[Profile]int{Structured: 0, Explorer: 30, Intensive: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.letter, func(t *testing.T) {
			got, err := Classify(uniform(tt.letter))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Profile)
			assert.Equal(t, tt.scores, got.Scores)
		})
	}
}

func TestClassify_TieGoesToStructured(t *testing.T) {
	answers := Answers{
		QuestionStudyTime:          "A",
		QuestionSessionDuration:    "A",
		QuestionLearningPace:       "A",
		QuestionLearningStyle:      "B",
		QuestionContentFormat:      "A",
		QuestionFeedbackPreference: "B",
		QuestionLearningGoals:      "A",
		QuestionMotivators:         "B",
		QuestionChallenges:         "A",
		QuestionInterestAreas:      "B",
		QuestionExperienceLevel:    "B",
		QuestionLearningTools:      "B",
	}

	got, err := Classify(answers)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Scores[Structured])
	assert.Equal(t, 50, got.Scores[Explorer])
	assert.Equal(t, Structured, got.Profile)
}

func TestClassify_ScoresAlwaysSumTo100(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	letters := []string{"A", "B", "C", "D", "a", " c "}

	for i := 0; i < 500; i++ {
		answers := Answers{}
		for _, q := range Questions() {
			answers[q] = letters[rng.Intn(len(letters))]
		}

		got, err := Classify(answers)
		require.NoError(t, err)
		assert.True(t, got.Profile.Valid())
		assert.Equal(t, 100, got.Scores[Structured]+got.Scores[Explorer]+got.Scores[Intensive])
		for _, p := range profileOrder {
			assert.LessOrEqual(t, got.Scores[p], got.Scores[got.Profile])
		}
	}
}

func TestClassify_ReportsEveryInvalidField(t *testing.T) {
	answers := uniform("A")
	delete(answers, QuestionStudyTime)
	answers[QuestionMotivators] = "E"
	answers[QuestionChallenges] = " b "

	_, err := Classify(answers)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{QuestionStudyTime, QuestionMotivators}, appErr.Fields)
}
