package tutor

import (
	"strings"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
)

// Answers maps a question key to its answer letter.
type Answers map[string]string

// Question keys
const (
	QuestionStudyTime          = "study_time"
	QuestionSessionDuration    = "session_duration"
	QuestionLearningPace       = "learning_pace"
	QuestionLearningStyle      = "learning_style"
	QuestionContentFormat      = "content_format"
	QuestionFeedbackPreference = "feedback_preference"
	QuestionLearningGoals      = "learning_goals"
	QuestionMotivators         = "motivators"
	QuestionChallenges         = "challenges"
	QuestionInterestAreas      = "interest_areas"
	QuestionExperienceLevel    = "experience_level"
	QuestionLearningTools      = "learning_tools"
)

type question struct {
	key       string
	dimension string
	points    int
	a, b, c   Profile
	other     Profile
}

// questionnaire is the scoring table: temporal 20, methodological 30,
// motivational 25, content 25.
var questionnaire = []question{
	{QuestionStudyTime, "temporal", 10, Structured, Explorer, Intensive, Explorer},
	{QuestionSessionDuration, "temporal", 5, Explorer, Structured, Intensive, Explorer},
	{QuestionLearningPace, "temporal", 5, Structured, Explorer, Intensive, Explorer},

	{QuestionLearningStyle, "methodological", 10, Structured, Explorer, Intensive, Intensive},
	{QuestionContentFormat, "methodological", 10, Structured, Explorer, Intensive, Intensive},
	{QuestionFeedbackPreference, "methodological", 10, Structured, Explorer, Intensive, Intensive},

	{QuestionLearningGoals, "motivational", 10, Structured, Explorer, Intensive, Intensive},
	{QuestionMotivators, "motivational", 10, Structured, Explorer, Intensive, Intensive},
	{QuestionChallenges, "motivational", 5, Structured, Explorer, Intensive, Intensive},

	{QuestionInterestAreas, "content", 10, Structured, Explorer, Intensive, Intensive},
	{QuestionExperienceLevel, "content", 10, Explorer, Structured, Intensive, Explorer},
	{QuestionLearningTools, "content", 5, Structured, Explorer, Intensive, Intensive},
}

func (q question) profileFor(answer string) Profile {
	switch answer {
	case "A":
		return q.a
	case "B":
		return q.b
	case "C":
		return q.c
	}
	return q.other
}

// Questions returns the question keys in scoring order.
func Questions() []string {
	keys := make([]string, len(questionnaire))
	for i, q := range questionnaire {
		keys[i] = q.key
	}
	return keys
}

type Classification struct {
	Profile Profile
	Scores  map[Profile]int
}

// NormalizeAnswer trims and upper-cases an answer letter.
func NormalizeAnswer(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}

func validAnswer(answer string) bool {
	return len(answer) == 1 && answer[0] >= 'A' && answer[0] <= 'D'
}

// Classify scores the answers and returns the archetype with the strictly
// greatest total. Ties go to the earlier of STRUCTURED, EXPLORER, INTENSIVE.
// Missing or out-of-range answers yield a validation error naming each field.
func Classify(answers Answers) (Classification, error) {
	var invalid []string
	for _, q := range questionnaire {
		if !validAnswer(NormalizeAnswer(answers[q.key])) {
			invalid = append(invalid, q.key)
		}
	}
	if len(invalid) > 0 {
		return Classification{}, apperr.Validation("questionnaire answers must be one of A, B, C or D", invalid...)
	}

	scores := map[Profile]int{Structured: 0, Explorer: 0, Intensive: 0}
	for _, q := range questionnaire {
		scores[q.profileFor(NormalizeAnswer(answers[q.key]))] += q.points
	}

	best := profileOrder[0]
	for _, p := range profileOrder[1:] {
		if scores[p] > scores[best] {
			best = p
		}
	}

	return Classification{Profile: best, Scores: scores}, nil
}
