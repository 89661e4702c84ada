package tutor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords covers Spanish and English function words plus the verbs
// students use to frame a question ("quiero aprender", "explícame").
var stopWords = toSet(
	// spanish
	"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como", "cómo", "con", "contra",
	"cual", "cuál", "cuando", "cuándo", "de", "del", "desde", "donde", "dónde", "durante", "e",
	"el", "él", "ella", "ellas", "ellos", "en", "entre", "era", "eres", "es", "esa", "esas",
	"ese", "eso", "esos", "esta", "está", "estas", "este", "esto", "estos", "estoy", "fue",
	"ha", "hay", "la", "las", "le", "les", "lo", "los", "más", "me", "mi", "mis", "mucho",
	"muy", "nada", "ni", "no", "nos", "o", "otra", "otro", "para", "pero", "poco", "por",
	"porque", "qué", "que", "quien", "quién", "se", "sea", "ser", "si", "sí", "sin", "sobre",
	"son", "su", "sus", "también", "tan", "te", "tengo", "ti", "tiene", "todo", "todos", "tu",
	"tus", "un", "una", "uno", "unos", "unas", "y", "ya", "yo", "hola", "gracias", "favor",
	"bien", "cosa", "cosas", "usted", "ustedes", "nosotros", "entonces", "aquí", "allí",
	"hacer", "hace", "puede", "pueden", "puedo", "cada", "mismo", "misma", "otros", "otras",
	"tanto", "todas", "vez", "veces", "solo", "sólo", "cuanto", "cuánto", "cuantos", "cuántos",
	// english
	"the", "and", "for", "are", "but", "not", "you", "your", "with", "have", "this", "that",
	"from", "they", "will", "what", "when", "where", "which", "who", "why", "how", "about",
	"into", "than", "then", "them", "these", "those", "there", "their", "would", "could",
	"should", "been", "being", "were", "does", "doing", "some", "such", "only", "just",
	"also", "very", "can", "more", "most", "other", "please", "thanks", "hello",
	// tutoring filler
	"quiero", "quisiera", "aprender", "saber", "entender", "comprender", "explicar", "explica",
	"explicame", "explícame", "explicarme", "ayuda", "ayudar", "ayudame", "ayúdame", "ayudarme",
	"puedes", "podrías", "podrias", "necesito", "pregunta", "duda", "dudas", "tema", "temas",
	"estudiar", "enseñar", "enséñame", "enseñame", "dime", "decir", "learn", "explain", "help",
	"want", "need", "know", "understand", "question", "topic", "tell",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize splits text into lowercase runs of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termTokens keeps the tokens the similarity matrix is built on: two or more
// runes, stop words included.
func termTokens(text string) []string {
	var out []string
	for _, tok := range tokenize(text) {
		if utf8.RuneCountInString(tok) >= 2 {
			out = append(out, tok)
		}
	}
	return out
}

// contentTokens keeps tokens that can name a topic.
func contentTokens(text string, minRunes int) []string {
	var out []string
	for _, tok := range tokenize(text) {
		if utf8.RuneCountInString(tok) < minRunes || isNumber(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isNumber(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
