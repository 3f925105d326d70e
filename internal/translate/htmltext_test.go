package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Cafetera italiana", "Cafetera italiana"},
		{"simple tags removed", "<strong>Cafetera</strong> italiana", "Cafetera italiana"},
		{"entities decoded", "Caf&eacute; &amp; t&eacute;", "Café & té"},
		{"whitespace collapsed", "  Cafetera \n\t italiana  ", "Cafetera italiana"},
		{"nested markup", "<p><a href=\"/x\">Ver más</a></p>", "Ver más"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}

func TestExtractText_BlockTagsBecomeSpaces(t *testing.T) {
	input := "<p>Primera frase.</p><p>Segunda frase.</p>"
	assert.Equal(t, "Primera frase. Segunda frase.", ExtractText(input))
}

func TestExtractText_InlineTagsDoNotSplitWords(t *testing.T) {
	input := "Cafetera <strong>italiana</strong> clásica"
	assert.Equal(t, "Cafetera italiana clásica", ExtractText(input))
}

func TestRepairMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"space after open bracket", "< p>texto</p>", "<p>texto</p>"},
		{"space before close bracket", "<p >texto</p>", "<p>texto</p>"},
		{"broken closing slash", "<p>texto< / p>", "<p>texto</p>"},
		{"healthy markup untouched", "<p class=\"intro\">texto</p>", "<p class=\"intro\">texto</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairMarkup(tt.input))
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"diacritics force spanish", "Envío rápido", "es"},
		{"spanish stop words", "la cafetera de aluminio para el hogar", "es"},
		{"english stop words", "the best coffee maker for your kitchen", "en"},
		{"no signal falls back", "XK-2000", "es"},
		{"empty falls back", "", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text, "es"))
		})
	}
}
