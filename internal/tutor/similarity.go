package tutor

import "sort"

// DefaultSimilarityThreshold is the minimum cosine similarity a past
// interaction needs to be reused as context.
const DefaultSimilarityThreshold = 0.3

type SimilarityFinder struct {
	Threshold float64
}

func NewSimilarityFinder(threshold float64) *SimilarityFinder {
	return &SimilarityFinder{Threshold: threshold}
}

// FindSimilar uses the default threshold.
func FindSimilar(text string, history []Record, limit int) []SimilarInteraction {
	return NewSimilarityFinder(DefaultSimilarityThreshold).FindSimilar(text, history, limit)
}

// FindSimilar ranks the helpful records in history by TF-IDF cosine
// similarity to text. Only scores strictly above the threshold are kept,
// sorted descending (stable on history order) and truncated to limit.
func (f *SimilarityFinder) FindSimilar(text string, history []Record, limit int) []SimilarInteraction {
	result := []SimilarInteraction{}
	if limit <= 0 {
		return result
	}

	var candidates []Record
	for _, r := range history {
		if r.helpful() {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return result
	}

	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, termTokens(text))
	for _, r := range candidates {
		docs = append(docs, termTokens(r.Message))
	}

	rows := tfidfMatrix(docs)
	for i, r := range candidates {
		score := cosine(rows[0], rows[i+1])
		if score > f.Threshold {
			result = append(result, SimilarInteraction{Record: r, Similarity: score})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Similarity > result[j].Similarity
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
