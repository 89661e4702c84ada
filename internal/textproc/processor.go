package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// chatAbbreviations expands shorthand common in Spanish chat messages.
var chatAbbreviations = map[string]string{
	"q":  "que",
	"k":  "que",
	"xq": "porque",
	"tb": "también",
}

// Processor handles text processing and cleanup
type Processor struct {
	multiWhitespace *regexp.Regexp
	inlineSpace     *regexp.Regexp
	htmlTags        *regexp.Regexp
	sentenceEnd     *regexp.Regexp
}

func NewProcessor() *Processor {
	return &Processor{
		multiWhitespace: regexp.MustCompile(`\s+`),
		inlineSpace:     regexp.MustCompile(`[ \t\f\v]+`),
		htmlTags:        regexp.MustCompile(`<[^>]*>`),
		sentenceEnd:     regexp.MustCompile(`[.!?](\s|$)`),
	}
}

// Normalize prepares a chat message for the model: collapses whitespace,
// lower-cases, expands chat abbreviations and drops repeated words while
// keeping the first occurrence.
func (p *Processor) Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(p.multiWhitespace.ReplaceAllString(text, " ")))
	if text == "" {
		return ""
	}

	seen := make(map[string]bool)
	var words []string
	for _, word := range strings.Split(text, " ") {
		if expanded, ok := chatAbbreviations[word]; ok {
			word = expanded
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}

	return strings.Join(words, " ")
}

// CleanAttachment strips markup from uploaded text and normalizes spacing,
// allowing at most two consecutive blank lines.
func (p *Processor) CleanAttachment(content string) string {
	content = strings.ToValidUTF8(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = p.htmlTags.ReplaceAllString(content, "")
	content = p.inlineSpace.ReplaceAllString(content, " ")

	var cleaned []string
	emptyLines := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			emptyLines++
			if emptyLines <= 2 {
				cleaned = append(cleaned, "")
			}
			continue
		}
		emptyLines = 0
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Excerpt shortens text to at most maxRunes runes, preferring to cut after
// the last sentence that fits.
func (p *Processor) Excerpt(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])

	ends := p.sentenceEnd.FindAllStringIndex(cut, -1)
	if len(ends) > 0 {
		last := ends[len(ends)-1]
		if last[0] > len(cut)/2 {
			return strings.TrimSpace(cut[:last[0]+1])
		}
	}

	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

// CountWords estimates word count in text
func (p *Processor) CountWords(text string) int {
	words := strings.FieldsFunc(text, func(c rune) bool {
		return unicode.IsSpace(c) || unicode.IsPunct(c)
	})

	count := 0
	for _, word := range words {
		if utf8.RuneCountInString(word) > 1 {
			count++
		}
	}
	return count
}
