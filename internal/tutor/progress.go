package tutor

import (
	"math"
	"sort"
)

const DefaultHistoryWindow = 20

const (
	maxPreferredTopics = 5
	minTrendPoints     = 6
)

// Analyzer summarises a user's recent interactions.
type Analyzer struct {
	window int
	topics *TopicExtractor
}

func NewAnalyzer(window int, topics *TopicExtractor) *Analyzer {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if topics == nil {
		topics = NewTopicExtractor()
	}
	return &Analyzer{window: window, topics: topics}
}

func (a *Analyzer) Window() int { return a.window }

// Analyze summarises the newest records (at most the window). Records may
// come in any order; they are sorted newest first by creation time then id.
func (a *Analyzer) Analyze(records []Record) ProgressSummary {
	if len(records) == 0 {
		return DefaultSummary()
	}

	window := make([]Record, len(records))
	copy(window, records)
	sort.SliceStable(window, func(i, j int) bool {
		if !window[i].CreatedAt.Equal(window[j].CreatedAt) {
			return window[i].CreatedAt.After(window[j].CreatedAt)
		}
		return window[i].ID > window[j].ID
	})
	if len(window) > a.window {
		window = window[:a.window]
	}

	return ProgressSummary{
		AvgComplexity:        avgComplexity(window),
		UnderstandingLevel:   understandingLevel(window),
		MasteryScores:        masteryScores(window),
		LearningPace:         learningPace(window),
		LearningStyle:        learningStyle(window),
		PreferredTopics:      a.preferredTopics(window),
		InteractionsAnalyzed: len(window),
	}
}

func avgComplexity(window []Record) float64 {
	var sum float64
	for _, r := range window {
		c := r.ComplexityLevel
		if c == 0 {
			c = 1
		}
		sum += float64(c)
	}
	return sum / float64(len(window))
}

func understandingLevel(window []Record) float64 {
	var sum float64
	for _, r := range window {
		sum += float64(r.understandingOr(3))
	}
	return sum / float64(len(window))
}

// masteryScores weights the k-th most recent interaction on a topic by
// 1/(k+1). A helpful answer scales understanding/5 by 1.5, otherwise by 0.5,
// so scores can exceed 1.
func masteryScores(window []Record) map[string]float64 {
	type acc struct {
		k         int
		weighted  float64
		weightSum float64
	}
	perTopic := make(map[string]*acc)

	for _, r := range window {
		topic := r.Topic
		if topic == "" {
			topic = GeneralTopic
		}
		t, ok := perTopic[topic]
		if !ok {
			t = &acc{}
			perTopic[topic] = t
		}

		factor := 0.5
		if r.helpful() {
			factor = 1.5
		}
		raw := float64(r.understandingOr(3)) / 5.0 * factor
		weight := 1.0 / float64(t.k+1)

		t.weighted += raw * weight
		t.weightSum += weight
		t.k++
	}

	scores := make(map[string]float64, len(perTopic))
	for topic, t := range perTopic {
		scores[topic] = t.weighted / t.weightSum
	}
	return scores
}

func learningPace(window []Record) string {
	if len(window) < 2 {
		return PaceNormal
	}

	var total float64
	for i := 0; i+1 < len(window); i++ {
		total += math.Abs(window[i].CreatedAt.Sub(window[i+1].CreatedAt).Hours())
	}
	mean := total / float64(len(window)-1)

	switch {
	case mean < 24:
		return PaceIntensive
	case mean < 72:
		return PaceRegular
	default:
		return PaceCasual
	}
}

// learningStyle fits a least-squares line through the recorded understanding
// ratings, oldest first. Unrated interactions are not points.
func learningStyle(window []Record) string {
	var points []float64
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Understanding != nil {
			points = append(points, float64(*window[i].Understanding))
		}
	}
	if len(points) < minTrendPoints {
		return StyleBalanced
	}

	s := slope(points)
	switch {
	case s > 0.1:
		return StyleAdvancing
	case math.Abs(s) <= 0.1:
		return StyleStable
	default:
		return StyleStruggling
	}
}

func slope(ys []float64) float64 {
	n := float64(len(ys))
	meanX := (n - 1) / 2
	var meanY float64
	for _, y := range ys {
		meanY += y
	}
	meanY /= n

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func (a *Analyzer) preferredTopics(window []Record) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range window {
		if !r.helpful() {
			continue
		}
		for _, topic := range a.topics.Extract(r.Message) {
			if topic == GeneralTopic {
				continue
			}
			if _, ok := counts[topic]; !ok {
				order = append(order, topic)
			}
			counts[topic]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxPreferredTopics {
		order = order[:maxPreferredTopics]
	}
	if order == nil {
		order = []string{}
	}
	return order
}
