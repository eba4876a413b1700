// Package slug normalizes source and category names into URL-facing
// identifiers. Turkish letters map to their ASCII equivalents so that
// "Sabah Gazetesi" and "sabah-gazetesi" compare equal after slugging.
package slug

import (
	"regexp"
	"strings"
)

var turkishReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9-]`)
)

// Make returns the slug form of text: ASCII-folded Turkish letters,
// lowercase, whitespace runs collapsed to single hyphens, everything
// outside [a-z0-9-] dropped.
func Make(text string) string {
	s := turkishReplacer.Replace(text)
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, "-")
	return invalidRe.ReplaceAllString(s, "")
}

// Match reports whether name matches candidate either exactly or by slug.
func Match(name, candidate string) bool {
	return name == candidate || Make(name) == Make(candidate)
}
