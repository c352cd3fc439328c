// Package slug derives URL slugs for job postings and parses posting ids back
// out of canonical job URLs.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// Gender indicators like "(m/w/d)" or "(w/m/x)" are stripped before slugging.
var genderIndicator = regexp.MustCompile(`\([mwdfx/\s|,]+\)`)

var transliterations = map[rune]string{
	'ä': "ae", 'ö': "oe", 'ü': "ue", 'ß': "ss",
	'Ä': "ae", 'Ö': "oe", 'Ü': "ue",
	'á': "a", 'à': "a", 'â': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u",
	'ç': "c", 'ñ': "n", 'ý': "y",
}

const maxSlugLen = 80

// ForJob builds the deterministic slug from title, location and the
// accommodation flag.
func ForJob(title, location string, accommodation bool) string {
	parts := []string{title, location}
	if accommodation {
		parts = append(parts, "unterkunft")
	}
	return Make(strings.Join(parts, " "))
}

// Make normalizes one string into slug form. It is idempotent:
// Make(Make(x)) == Make(x).
func Make(s string) string {
	s = genderIndicator.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if repl, ok := transliterations[r]; ok {
			b.WriteString(repl)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '-':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := strings.Join(fields, "-")

	if len(out) > maxSlugLen {
		out = out[:maxSlugLen]
		if i := strings.LastIndex(out, "-"); i > 0 {
			out = out[:i]
		}
		out = strings.TrimRight(out, "-")
	}
	return out
}

// JobURL returns the canonical path for a posting.
func JobURL(s string, id int64) string {
	return "/jobs/" + s + "-" + strconv.FormatInt(id, 10)
}

// ExtractID splits a slug-with-id into its slug part and the trailing numeric
// id. A bare number parses as (empty slug, id). ok is false when no trailing
// id is present.
func ExtractID(s string) (string, int64, bool) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return "", id, true
	}

	i := strings.LastIndex(s, "-")
	if i < 0 || i == len(s)-1 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return s[:i], id, true
}
