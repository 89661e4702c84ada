package tutor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Ayash-Bera/mentor/backend/internal/textproc"
)

const baseInstruction = "Eres un tutor de IA especializado en educación. Debes responder en español y adaptar tu estilo según el tipo de estudiante."

var archetypeInstructions = map[Profile]string{
	Structured: `Para estudiantes estructurados:
- Proporciona explicaciones detalladas y analíticas
- Incluye referencias académicas cuando sea relevante
- Plantea preguntas desafiantes para estimular el pensamiento crítico
- Sugiere recursos adicionales avanzados`,
	Explorer: `Para estudiantes exploradores:
- Ofrece explicaciones balanceadas y claras
- Incluye ejemplos prácticos
- Proporciona pasos intermedios en las explicaciones
- Sugiere ejercicios de práctica moderados`,
	Intensive: `Para estudiantes intensivos:
- Da explicaciones simples y directas
- Usa muchos ejemplos de la vida cotidiana
- Divide la información en pasos pequeños y manejables
- Ofrece refuerzo positivo constante`,
}

// neutralInstruction is used until the student completes the questionnaire.
const neutralInstruction = `El estudiante todavía no ha completado el cuestionario de perfil:
- Ofrece explicaciones claras de dificultad intermedia
- Incluye al menos un ejemplo práctico
- Pregunta al final si la explicación fue útil`

const (
	userInstructionPrefix = "Responde a la siguiente consulta: "
	attachmentOnlyMessage = "Analiza el archivo adjunto."
	similarExcerptRunes   = 300
)

var excerpts = textproc.NewProcessor()

type Attachment struct {
	Name    string
	Content string
}

// PromptRequest carries everything the composer renders.
type PromptRequest struct {
	Profile          Profile
	Message          string
	Summary          ProgressSummary
	Similar          []SimilarInteraction
	MainTopic        string
	CurrentMastery   float64
	TargetComplexity int
	Attachment       *Attachment
}

type PromptPair struct {
	System string
	User   string
}

// Compose renders the prompt for a message with no attachment and no known
// topic.
func Compose(profile Profile, message string, summary ProgressSummary, similar []SimilarInteraction) PromptPair {
	return ComposeRequest(PromptRequest{
		Profile:          profile,
		Message:          message,
		Summary:          summary,
		Similar:          similar,
		TargetComplexity: TargetComplexity(summary, 0),
	})
}

func ComposeRequest(req PromptRequest) PromptPair {
	var sys strings.Builder
	sys.WriteString(baseInstruction)
	sys.WriteString("\n\n")
	sys.WriteString(ArchetypeInstruction(req.Profile))
	sys.WriteString("\n\n")
	writeProgress(&sys, req)
	if len(req.Similar) > 0 {
		sys.WriteString("\n\n")
		writeSimilar(&sys, req.Similar)
	}

	return PromptPair{
		System: sys.String(),
		User:   userInstruction(req.Message, req.Attachment),
	}
}

// ArchetypeInstruction returns the paragraph for a profile, or the neutral
// one for an unclassified student.
func ArchetypeInstruction(profile Profile) string {
	if text, ok := archetypeInstructions[profile]; ok {
		return text
	}
	return neutralInstruction
}

func writeProgress(b *strings.Builder, req PromptRequest) {
	s := req.Summary
	b.WriteString("Progreso del estudiante:\n")
	fmt.Fprintf(b, "- Nivel de complejidad promedio: %.1f/5\n", s.AvgComplexity)
	fmt.Fprintf(b, "- Nivel de comprensión promedio: %.1f/5\n", s.UnderstandingLevel)
	fmt.Fprintf(b, "- Ritmo de aprendizaje: %s\n", s.LearningPace)
	fmt.Fprintf(b, "- Tendencia de aprendizaje: %s\n", s.LearningStyle)

	if len(s.PreferredTopics) > 0 {
		fmt.Fprintf(b, "- Temas preferidos: %s\n", strings.Join(s.PreferredTopics, ", "))
	} else {
		b.WriteString("- Temas preferidos: ninguno todavía\n")
	}

	if len(s.MasteryScores) > 0 {
		topics := make([]string, 0, len(s.MasteryScores))
		for topic := range s.MasteryScores {
			topics = append(topics, topic)
		}
		sort.Strings(topics)

		parts := make([]string, len(topics))
		for i, topic := range topics {
			parts[i] = fmt.Sprintf("%s %s", topic, percent(s.MasteryScores[topic]))
		}
		fmt.Fprintf(b, "- Dominio por tema: %s\n", strings.Join(parts, ", "))
	}

	if req.MainTopic != "" {
		fmt.Fprintf(b, "- Tema de la consulta: %s (dominio %s)\n", req.MainTopic, percent(req.CurrentMastery))
	}
	fmt.Fprintf(b, "- Nivel de complejidad recomendado para esta respuesta: %d/5", req.TargetComplexity)
}

func writeSimilar(b *strings.Builder, similar []SimilarInteraction) {
	b.WriteString("Interacciones anteriores similares que resultaron útiles:")
	for i, s := range similar {
		understanding := "sin registrar"
		if s.Record.Understanding != nil {
			understanding = fmt.Sprintf("%d/5", *s.Record.Understanding)
		}
		fmt.Fprintf(b, "\n%d. Pregunta: %s\n   Respuesta: %s\n   Comprensión registrada: %s",
			i+1,
			excerpts.Excerpt(s.Record.Message, similarExcerptRunes),
			excerpts.Excerpt(s.Record.Response, similarExcerptRunes),
			understanding,
		)
	}
}

func userInstruction(message string, attachment *Attachment) string {
	message = strings.TrimSpace(message)
	if message == "" && attachment != nil {
		message = attachmentOnlyMessage
	}

	text := userInstructionPrefix + message
	if attachment != nil {
		text += fmt.Sprintf("\n\nArchivo adjunto (%s):\n%s", attachment.Name, attachment.Content)
	}
	return text
}

// percent renders a mastery score; scores above 1 render above 100%.
func percent(score float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}
