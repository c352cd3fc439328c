// Package anabin checks an applicant's declared foreign university against
// the anabin accreditation registry. Two paths exist: a fuzzy search over the
// registry's HTML result table, and a headless-browser PDF snapshot of the
// institution detail page, cached on disk.
package anabin

import (
	"strings"
)

// abbreviations is the expansion table applied before fuzzy comparison.
var abbreviations = map[string]string{
	"uni.":    "university",
	"univ.":   "university",
	"inst.":   "institute",
	"tech.":   "technical",
	"techn.":  "technical",
	"staatl.": "state",
	"natl.":   "national",
	"acad.":   "academy",
	"hs.":     "hochschule",
	"fh.":     "fachhochschule",
}

// countryNames maps common German and English spellings to the canonical
// registry country string.
var countryNames = map[string]string{
	"germany":       "Deutschland",
	"deutschland":   "Deutschland",
	"india":         "Indien",
	"indien":        "Indien",
	"china":         "China",
	"vietnam":       "Vietnam",
	"indonesia":     "Indonesien",
	"indonesien":    "Indonesien",
	"philippines":   "Philippinen",
	"philippinen":   "Philippinen",
	"turkey":        "Türkei",
	"tuerkei":       "Türkei",
	"türkei":        "Türkei",
	"ukraine":       "Ukraine",
	"russia":        "Russische Föderation",
	"russland":      "Russische Föderation",
	"brazil":        "Brasilien",
	"brasilien":     "Brasilien",
	"mexico":        "Mexiko",
	"mexiko":        "Mexiko",
	"egypt":         "Ägypten",
	"aegypten":      "Ägypten",
	"ägypten":       "Ägypten",
	"morocco":       "Marokko",
	"marokko":       "Marokko",
	"tunisia":       "Tunesien",
	"tunesien":      "Tunesien",
	"kenya":         "Kenia",
	"kenia":         "Kenia",
	"nigeria":       "Nigeria",
	"ghana":         "Ghana",
	"usa":           "USA",
	"united states": "USA",
	"uk":            "Vereinigtes Königreich",
	"great britain": "Vereinigtes Königreich",
	"spain":         "Spanien",
	"spanien":       "Spanien",
	"italy":         "Italien",
	"italien":       "Italien",
	"poland":        "Polen",
	"polen":         "Polen",
	"serbia":        "Serbien",
	"serbien":       "Serbien",
	"albania":       "Albanien",
	"albanien":      "Albanien",
	"kosovo":        "Kosovo",
	"georgia":       "Georgien",
	"georgien":      "Georgien",
}

// searchStopwords are dropped when picking characteristic tokens for the
// registry search field.
var searchStopwords = map[string]bool{
	"der": true, "die": true, "das": true, "und": true,
	"für": true, "fuer": true, "von": true, "des": true,
	"the": true, "and": true, "for": true,
}

// Normalize prepares a name for fuzzy comparison: lowercase, abbreviation
// expansion, punctuation stripped, whitespace collapsed.
func Normalize(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for i, f := range fields {
		if repl, ok := abbreviations[f]; ok {
			fields[i] = repl
		}
	}

	var b strings.Builder
	for _, r := range strings.Join(fields, " ") {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == 'ä', r == 'ö', r == 'ü', r == 'ß':
			b.WriteRune(r)
		case r > 127:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalCountry resolves a free-form country spelling. The boolean is
// false for spellings outside the closed map.
func CanonicalCountry(s string) (string, bool) {
	c, ok := countryNames[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// SearchTokens picks up to four characteristic tokens (>3 chars, stopwords
// removed) for the registry's search field.
func SearchTokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if len([]rune(tok)) <= 3 || searchStopwords[tok] {
			continue
		}
		out = append(out, tok)
		if len(out) == 4 {
			break
		}
	}
	return out
}
