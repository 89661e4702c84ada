package tutor

import "math"

const (
	MinComplexity = 1
	MaxComplexity = 5
)

// TargetComplexity picks the complexity level for the next answer: the
// rounded average, one step up for a student who understands and masters
// the topic, one step down for a struggling one.
func TargetComplexity(summary ProgressSummary, currentMastery float64) int {
	level := int(math.Round(summary.AvgComplexity))

	switch {
	case summary.UnderstandingLevel <= 2 || summary.LearningStyle == StyleStruggling:
		level--
	case summary.UnderstandingLevel >= 4 && currentMastery >= 0.7:
		level++
	}

	if level < MinComplexity {
		return MinComplexity
	}
	if level > MaxComplexity {
		return MaxComplexity
	}
	return level
}
