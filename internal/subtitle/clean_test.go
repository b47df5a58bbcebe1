package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAnnotations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello world", "Hello world"},
		{"newline", "Hello\nworld", "Hello world"},
		{"crlf", "Hello\r\nworld\r\n", "Hello world"},
		{"surrounding whitespace", "  \n Hello \n", "Hello"},
		{"aside removed", "Hello (aside) world", "Hello world"},
		{"full width aside removed", "こんにちは（笑）世界", "こんにちは世界"},
		{"only annotation kept", "(laughs)", "(laughs)"},
		{"only full width annotation kept", "（ドアの音）", "（ドアの音）"},
		{"several annotations kept", " (door) (steps)\n", "(door) (steps)"},
		{"nested parens are not balanced", "(a(b)c)", "c)"},
		{"zero width space preserved", "a\u200bb", "a\u200bb"},
		{"leading byte order mark", "\ufeff(music)", "(music)"},
		{"trailing byte order mark", "(laughs)\ufeff", "(laughs)"},
		{"inner spacing kept", "a  b", "a  b"},
		{"blank lines keep their spaces", "a\n\nb", "a  b"},
		{"seam spacing shrinks", "Hello   (aside)\t world", "Hello world"},
		{"annotation between words without spaces", "one(x)two", "onetwo"},
		{"all whitespace", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimAnnotations(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zero width space", "a\u200bb", "ab"},
		{"bidi embedding", "\u202ahello\u202c", "hello"},
		{"byte order mark", "\ufeffhello", "hello"},
		{"word joiner and isolates", "x\u2060y\u2066z\u206f", "xyz"},
		{"whitespace left behind", "\u200b hello \u200b", "hello"},
		{"only invisible", "\u200b\u200c\u200d", ""},
		{"annotation and newline", "(sighs)\nFine.", "Fine."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeInvariant(t *testing.T) {
	inputs := []string{
		"line one\nline two",
		"\r\n\r\nwindows\r\n",
		"\u202b(music)\u202c\n",
		"trailing\u200b ",
		"（拍手）\n(clap)",
	}
	for _, in := range inputs {
		got := Normalize(in)
		assert.NotContains(t, got, "\n")
		assert.NotContains(t, got, "\r")
		assert.Equal(t, strings.TrimSpace(got), got)
		assert.False(t, reInvisible.MatchString(got), "invisible rune left in %q", got)
	}
}

func TestClean(t *testing.T) {
	in := []Subtitle{
		{Start: 0, End: 1, Text: "  "},
		{Start: 1, End: 2, Text: "Hi\nthere (whispers)"},
		{Start: 2, End: 3, Text: "\u200b"},
		{Start: 3, End: 4, Text: "(laughs)"},
		{Start: 4, End: 5, Text: "\ufeff(music)"},
	}
	got := Clean(in)
	assert.Equal(t, []Subtitle{
		{Start: 1, End: 2, Text: "Hi there"},
		{Start: 3, End: 4, Text: "(laughs)"},
		{Start: 4, End: 5, Text: "(music)"},
	}, got)
}

func TestSubModes(t *testing.T) {
	assert.Equal(t, []Mode{"Default", "Reading", "Recall", "Hidden"}, SubModes)
}
