// internal/matching/keywords.go
package matching

import "strings"

// stopwords dropped during tokenization (articles and prepositions, German
// and English).
var stopwords = map[string]bool{
	"der": true, "die": true, "das": true, "ein": true, "eine": true,
	"und": true, "oder": true, "für": true, "fuer": true, "mit": true,
	"von": true, "bei": true, "aus": true, "nach": true, "zum": true,
	"zur": true, "als": true, "auf": true, "the": true, "and": true,
	"for": true, "with": true, "from": true,
}

// companyForms are legal-form tokens that never carry relevance.
var companyForms = map[string]bool{
	"gmbh": true, "ag": true, "ug": true, "kg": true, "ohg": true,
	"gbr": true, "ltd": true, "inc": true, "co": true, "se": true,
}

// synonymGroups is the closed bidirectional synonym table. Tokens within one
// group are treated as equivalent during relevance detection.
var synonymGroups = [][]string{
	{"housekeeping", "reinigung", "zimmerreinigung", "zimmermädchen", "cleaning", "hauswirtschaft"},
	{"küche", "koch", "kochen", "kitchen", "küchenhilfe", "gastro", "culinary"},
	{"service", "kellner", "bedienung", "gastronomie", "restaurant", "waiter"},
	{"rezeption", "empfang", "reception", "front", "desk", "gästebetreuung"},
	{"pflege", "altenpflege", "krankenpflege", "care", "betreuung"},
	{"lager", "logistik", "warehouse", "kommissionierung", "versand"},
	{"büro", "office", "verwaltung", "administration", "sekretariat"},
}

// synonymIndex maps every token to its group id.
var synonymIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, group := range synonymGroups {
		for _, w := range group {
			idx[w] = i
		}
	}
	return idx
}()

// tokenize lowercases, splits on whitespace/hyphens/slashes and drops short
// tokens, stopwords and company legal forms.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '-', '/', ',', '.', '(', ')':
			return true
		}
		return false
	})

	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) < 3 {
			continue
		}
		if stopwords[tok] || companyForms[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// expand returns the token set plus every synonym of each token.
func expand(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
		if gid, ok := synonymIndex[tok]; ok {
			for _, syn := range synonymGroups[gid] {
				set[syn] = true
			}
		}
	}
	return set
}

// relevantTo reports whether the experience text shares at least one
// (synonym-expanded) token with the job title.
func relevantTo(experienceText, jobTitle string) bool {
	entry := expand(tokenize(experienceText))
	for _, tok := range tokenize(jobTitle) {
		if entry[tok] {
			return true
		}
		if gid, ok := synonymIndex[tok]; ok {
			for _, syn := range synonymGroups[gid] {
				if entry[syn] {
					return true
				}
			}
		}
	}
	return false
}
