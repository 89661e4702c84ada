package tutor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTopics     = 3
	minTopicRunes = 4
)

type TopicExtractor struct {
	limit int
}

func NewTopicExtractor() *TopicExtractor {
	return &TopicExtractor{limit: maxTopics}
}

// Extract returns up to three topic terms ordered by TF-IDF weight, ties by
// first occurrence. It never returns an empty slice.
func (e *TopicExtractor) Extract(text string) []string {
	tokens := contentTokens(text, minTopicRunes)
	if len(tokens) > 0 {
		return e.rank(tokens)
	}

	if fallback := e.whitespaceTopics(text); len(fallback) > 0 {
		return fallback
	}
	return []string{GeneralTopic}
}

// MainTopic is the first extracted topic.
func (e *TopicExtractor) MainTopic(text string) string {
	return e.Extract(text)[0]
}

func (e *TopicExtractor) rank(tokens []string) []string {
	row := tfidfMatrix([][]string{tokens})[0]

	type term struct {
		text   string
		first  int
		weight float64
	}

	vocab := make([]string, 0)
	for t := range toSet(tokens...) {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	firstSeen := make(map[string]int)
	for i, tok := range tokens {
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = i
		}
	}

	terms := make([]term, len(vocab))
	for i, t := range vocab {
		terms[i] = term{text: t, first: firstSeen[t], weight: row[i]}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].weight != terms[j].weight {
			return terms[i].weight > terms[j].weight
		}
		return terms[i].first < terms[j].first
	})

	var out []string
	for _, t := range terms {
		if len(out) == e.limit {
			break
		}
		out = append(out, t.text)
	}
	return out
}

// whitespaceTopics keeps whole words the tokenizer split or dropped, such as
// numbers. Stop words never become topics.
func (e *TopicExtractor) whitespaceTopics(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(field) <= 3 || seen[field] {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		seen[field] = true
		out = append(out, field)
		if len(out) == e.limit {
			break
		}
	}
	return out
}
