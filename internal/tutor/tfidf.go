package tutor

import (
	"math"
	"sort"
)

// tfidfMatrix fits smoothed TF-IDF weights over docs and returns one
// L2-normalised dense row per document:
//
//	idf(t) = ln((1+n) / (1+df(t))) + 1
//
// Columns follow the sorted vocabulary so results are reproducible.
func tfidfMatrix(docs [][]string) [][]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	column := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for i, term := range vocab {
		column[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([][]float64, len(docs))
	for d, doc := range docs {
		row := make([]float64, len(vocab))
		for _, term := range doc {
			row[column[term]]++
		}
		var norm float64
		for i := range row {
			row[i] *= idf[i]
			norm += row[i] * row[i]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := range row {
				row[i] /= norm
			}
		}
		rows[d] = row
	}
	return rows
}

// cosine assumes L2-normalised rows; a zero row scores 0.
func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	if dot > 1 {
		dot = 1
	}
	return dot
}
