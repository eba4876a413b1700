package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// descriptionLimit caps article descriptions, in runes.
const descriptionLimit = 300

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	decEntityRe  = regexp.MustCompile(`&#(\d+);`)
	hexEntityRe  = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)
)

// entityReplacer decodes the named HTML entities that actually occur in
// the feeds we ingest. Typographic entities map to plain ASCII stand-ins.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
	"&nbsp;", " ",
	"&copy;", "(c)",
	"&reg;", "(R)",
	"&trade;", "(TM)",
	"&hellip;", "...",
	"&mdash;", "--",
	"&ndash;", "-",
	"&lsquo;", "'",
	"&rsquo;", "'",
	"&ldquo;", `"`,
	"&rdquo;", `"`,
	"&laquo;", "<<",
	"&raquo;", ">>",
	"&times;", "x",
	"&divide;", "/",
	"&plusmn;", "+/-",
	"&deg;", "deg",
	"&bull;", "*",
	"&middot;", ".",
	"&amp;", "&",
)

// CleanText strips markup from feed-provided text: removes tags, collapses
// whitespace runs, and decodes named plus numeric HTML entities.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := tagRe.ReplaceAllString(text, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	cleaned = entityReplacer.Replace(cleaned)
	cleaned = decEntityRe.ReplaceAllStringFunc(cleaned, func(m string) string {
		code, err := strconv.Atoi(decEntityRe.FindStringSubmatch(m)[1])
		if err != nil || !utf8.ValidRune(rune(code)) {
			return m
		}
		return string(rune(code))
	})
	cleaned = hexEntityRe.ReplaceAllStringFunc(cleaned, func(m string) string {
		code, err := strconv.ParseInt(hexEntityRe.FindStringSubmatch(m)[1], 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return m
		}
		return string(rune(code))
	})

	return cleaned
}

// Truncate shortens text to the description limit, marking the cut with an
// ellipsis. Operates on runes so multi-byte Turkish characters never split.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return text
	}
	return string(runes[:descriptionLimit]) + "..."
}
