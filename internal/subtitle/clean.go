package subtitle

import (
	"regexp"
	"strings"
	"unicode"
)

// seam marks where an annotation was cut out.
const seam = "\x00"

var (
	reLineBreak = regexp.MustCompile(`\r\n|\n|\r`)
	reSeam      = regexp.MustCompile(`[\s\x00]*\x00[\s\x00]*`)

	// Non-nested and non-greedy: "(a(b)c)" leaves "c)".
	reParens         = regexp.MustCompile(`\(.*?\)`)
	reFullWidthParen = regexp.MustCompile(`（.*?）`)

	reInvisible = regexp.MustCompile(`[\x{200B}-\x{200D}\x{202A}-\x{202E}\x{2060}-\x{2064}\x{2066}-\x{206F}\x{FEFF}]`)
)

// TrimAnnotations flattens line breaks and drops parenthesized annotations,
// unless the annotation is all the cue has to say. Whitespace around a removed
// annotation shrinks to one space; the rest of the text keeps its spacing.
func TrimAnnotations(text string) string {
	text = trim(reLineBreak.ReplaceAllString(text, " "))

	stripped := reParens.ReplaceAllString(text, seam)
	stripped = reFullWidthParen.ReplaceAllString(stripped, seam)
	stripped = trim(reSeam.ReplaceAllStringFunc(stripped, func(m string) string {
		if strings.ContainsFunc(m, unicode.IsSpace) {
			return " "
		}
		return ""
	}))
	if stripped != "" {
		return stripped
	}
	return text
}

// Normalize is TrimAnnotations followed by removal of zero-width and
// bidi-control characters.
func Normalize(text string) string {
	return trim(reInvisible.ReplaceAllString(TrimAnnotations(text), ""))
}

// Clean normalizes every cue and keeps, in order, the ones with text left.
func Clean(subs []Subtitle) []Subtitle {
	out := make([]Subtitle, 0, len(subs))
	for _, sub := range subs {
		sub.Text = Normalize(sub.Text)
		if sub.Text == "" {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// trim also drops a byte order mark, which browsers count as whitespace.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
}
