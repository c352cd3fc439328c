// internal/slug/slug_test.go
package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Servicekraft Hotel", "servicekraft-hotel"},
		{"umlauts transliterated", "Küchenhilfe für Großküche", "kuechenhilfe-fuer-grosskueche"},
		{"gender indicator stripped", "Koch (m/w/d) gesucht", "koch-gesucht"},
		{"gender indicator variant", "Erntehelfer (w/m/x)", "erntehelfer"},
		{"accents folded", "Señor José's Café", "senor-joses-cafe"},
		{"punctuation dropped", "Lager- & Logistikmitarbeiter!", "lager-logistikmitarbeiter"},
		{"collapses whitespace", "  Reinigungskraft \t Hotel  ", "reinigungskraft-hotel"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Küchenhilfe (m/w/d) für Großküche",
		"Servicekraft Hotel Berlin",
		"Erntehelfer Saison 2026",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "input %q", in)
	}
}

func TestMake_TruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("wort ", 30)
	out := Make(long)

	assert.LessOrEqual(t, len(out), maxSlugLen)
	assert.False(t, strings.HasSuffix(out, "-"))
	assert.False(t, strings.HasPrefix(out, "-"))
}

func TestForJob(t *testing.T) {
	assert.Equal(t, "servicekraft-berlin", ForJob("Servicekraft", "Berlin", false))
	assert.Equal(t, "servicekraft-berlin-unterkunft", ForJob("Servicekraft", "Berlin", true))
}

func TestJobURL(t *testing.T) {
	assert.Equal(t, "/jobs/servicekraft-berlin-42", JobURL("servicekraft-berlin", 42))
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSlug string
		wantID   int64
		wantOK   bool
	}{
		{"slug with id", "servicekraft-berlin-42", "servicekraft-berlin", 42, true},
		{"bare number", "42", "", 42, true},
		{"no trailing id", "servicekraft-berlin", "", 0, false},
		{"trailing dash", "servicekraft-", "", 0, false},
		{"empty", "", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, id, ok := ExtractID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSlug, slug)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}
