package subtitle

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrLoad wraps every failure of Load.
var ErrLoad = errors.New("load subtitles")

var (
	reTiming   = regexp.MustCompile(`^\s*((?:\d+:)?\d{1,2}:\d{2}[,.]\d{1,3})\s*-->\s*((?:\d+:)?\d{1,2}:\d{2}[,.]\d{1,3})`)
	reHTMLTag  = regexp.MustCompile(`</?[^>]+>`)
	reASSBlock = regexp.MustCompile(`\{\\[^}]*\}`)
)

// LoadOptions tunes Load.
type LoadOptions struct {
	// Delay in milliseconds added to every cue.
	Delay int
	// SkipEmpty drops cues without text.
	SkipEmpty bool
}

// Load reads an SRT or WebVTT file and returns its cues in milliseconds,
// shifted by the delay and floored to 10 ms.
func Load(path string, opts LoadOptions) ([]Subtitle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	cues, err := Parse(DecodeText(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	out := make([]Subtitle, 0, len(cues))
	for _, c := range cues {
		if opts.SkipEmpty && strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.Start = shift(c.Start, opts.Delay)
		c.End = shift(c.End, opts.Delay)
		out = append(out, c)
	}
	return out, nil
}

func shift(ms float64, delay int) float64 {
	v := int64(ms) + int64(delay)
	if v < 0 {
		v = 0
	}
	return float64(v / 10 * 10)
}

// Parse reads SRT or WebVTT text. Cues are sorted by start time, markup is
// stripped and multi-line text is joined with "\n".
func Parse(text string) ([]Subtitle, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var subs []Subtitle
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(strings.Trim(block, "\n"), "\n")

		timing := -1
		for i, l := range lines {
			if strings.Contains(l, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			// header, NOTE or STYLE block, or a stray index
			continue
		}

		m := reTiming.FindStringSubmatch(lines[timing])
		if m == nil {
			return nil, fmt.Errorf("bad timing line %q", lines[timing])
		}
		start, err := parseTimestamp(m[1])
		if err != nil {
			return nil, err
		}
		end, err := parseTimestamp(m[2])
		if err != nil {
			return nil, err
		}

		body := make([]string, 0, len(lines)-timing-1)
		for _, l := range lines[timing+1:] {
			body = append(body, strings.TrimSpace(plainText(l)))
		}
		subs = append(subs, Subtitle{
			Start: float64(start),
			End:   float64(end),
			Text:  strings.TrimSpace(strings.Join(body, "\n")),
		})
	}

	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Start < subs[j].Start })
	return subs, nil
}

func plainText(line string) string {
	line = reASSBlock.ReplaceAllString(line, "")
	return reHTMLTag.ReplaceAllString(line, "")
}

// parseTimestamp turns "hh:mm:ss,mmm", "mm:ss.mmm" and friends into milliseconds.
func parseTimestamp(ts string) (int64, error) {
	ts = strings.Replace(ts, ",", ".", 1)
	clock, frac, _ := strings.Cut(ts, ".")

	parts := strings.Split(clock, ":")
	var secs int64
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		secs = secs*60 + n
	}

	// "5" means 500 ms, "05" means 50 ms
	for len(frac) < 3 {
		frac += "0"
	}
	ms, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return secs*1000 + ms, nil
}
