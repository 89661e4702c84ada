package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicExtractor_Extract(t *testing.T) {
	e := NewTopicExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"filler removed", "Quiero aprender sobre fracciones", []string{"fracciones"}},
		{"ranked by weight", "derivadas integrales derivadas límites derivadas integrales", []string{"derivadas", "integrales", "límites"}},
		{"ties by first occurrence", "Álgebra, geometría, probabilidad y estadística", []string{"álgebra", "geometría", "probabilidad"}},
		{"short tokens and numbers dropped", "La ley de Ohm 2024 explicada", []string{"explicada"}},
		{"whitespace fallback", "quiero 2024", []string{"2024"}},
		{"only filler", "Quiero aprender", []string{GeneralTopic}},
		{"only greetings", "Hola, gracias por todo", []string{GeneralTopic}},
		{"general sentinel", "¿¿ ?? sí no", []string{GeneralTopic}},
		{"empty", "", []string{GeneralTopic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestTopicExtractor_Deterministic(t *testing.T) {
	e := NewTopicExtractor()
	text := "ecuaciones cuadráticas y ecuaciones lineales con fracciones algebraicas"

	first := e.Extract(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Extract(text))
	}
	assert.Equal(t, "ecuaciones", e.MainTopic(text))
}
