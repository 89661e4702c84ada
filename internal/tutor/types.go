// Package tutor holds the adaptive tutoring heuristics: questionnaire
// classification, topic extraction, similarity search, progress analysis
// and prompt composition. Everything here is pure and safe for concurrent use.
package tutor

import "time"

type Profile string

const (
	Structured Profile = "STRUCTURED"
	Explorer   Profile = "EXPLORER"
	Intensive  Profile = "INTENSIVE"
)

// profileOrder is also the tie-break order.
var profileOrder = []Profile{Structured, Explorer, Intensive}

func (p Profile) Valid() bool {
	switch p {
	case Structured, Explorer, Intensive:
		return true
	}
	return false
}

// Learning pace categories
const (
	PaceIntensive = "intensive"
	PaceRegular   = "regular"
	PaceCasual    = "casual"
	PaceNormal    = "normal"
)

// Learning style trends
const (
	StyleAdvancing  = "advancing"
	StyleStable     = "stable"
	StyleStruggling = "struggling"
	StyleBalanced   = "balanced"
)

// GeneralTopic is returned when no topic can be extracted.
const GeneralTopic = "general"

// Record is the plain view of a past interaction the heuristics work on.
type Record struct {
	ID              uint
	Message         string
	Response        string
	CreatedAt       time.Time
	Helpful         *bool
	Understanding   *int
	Topic           string
	ComplexityLevel int
}

func (r Record) helpful() bool {
	return r.Helpful != nil && *r.Helpful
}

// understandingOr returns the recorded understanding or def.
func (r Record) understandingOr(def int) int {
	if r.Understanding == nil {
		return def
	}
	return *r.Understanding
}

type ProgressSummary struct {
	AvgComplexity        float64            `json:"avg_complexity"`
	UnderstandingLevel   float64            `json:"understanding_level"`
	MasteryScores        map[string]float64 `json:"mastery_scores"`
	LearningPace         string             `json:"learning_pace"`
	LearningStyle        string             `json:"learning_style"`
	PreferredTopics      []string           `json:"preferred_topics"`
	InteractionsAnalyzed int                `json:"interactions_analyzed"`
}

// DefaultSummary is the summary of an empty history.
func DefaultSummary() ProgressSummary {
	return ProgressSummary{
		AvgComplexity:      1,
		UnderstandingLevel: 3,
		MasteryScores:      map[string]float64{},
		LearningPace:       PaceNormal,
		LearningStyle:      StyleBalanced,
		PreferredTopics:    []string{},
	}
}

type SimilarInteraction struct {
	Record     Record  `json:"-"`
	Similarity float64 `json:"similarity"`
}
