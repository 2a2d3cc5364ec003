// Package narrative renders a generated summary with its keywords
// highlighted. Matching is a single pass over the original text: spans
// are computed against the unmodified input, so a highlight can never
// re-match inside markup injected for an earlier keyword.
package narrative

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"github.com/microcosm-cc/bluemonday"

	"github.com/rcliao/memory-cartography/internal/model"
)

// markOpen/markClose wrap each keyword occurrence.
const (
	markOpen  = `<mark class="keyword">`
	markClose = `</mark>`
)

// policy keeps the highlight markup and basic formatting, stripping
// anything executable before display.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("mark", "em", "strong", "p", "br")
	p.AllowAttrs("class").OnElements("mark")
	return p
}()

// span is a half-open byte range in the original text.
type span struct {
	start, end int
}

// Highlight wraps every whole-word, case-insensitive occurrence of the
// keywords in a highlight marker and sanitizes the result. Overlapping
// matches keep the leftmost-longest span; later keywords never match
// inside an already highlighted region.
func Highlight(text string, keywords []string) string {
	if text == "" {
		return ""
	}

	spans := matchSpans(text, keywords)
	if len(spans) == 0 {
		return policy.Sanitize(text)
	}

	var out strings.Builder
	out.Grow(len(text) + len(spans)*(len(markOpen)+len(markClose)))

	prev := 0
	for _, sp := range spans {
		out.WriteString(text[prev:sp.start])
		out.WriteString(markOpen)
		out.WriteString(text[sp.start:sp.end])
		out.WriteString(markClose)
		prev = sp.end
	}
	out.WriteString(text[prev:])

	return policy.Sanitize(out.String())
}

// Render highlights a narrative's text with its own keyword set.
func Render(n model.Narrative) string {
	return Highlight(n.Text, n.Keywords)
}

// matchSpans finds the non-overlapping keyword occurrences in text,
// ordered by position.
func matchSpans(text string, keywords []string) []span {
	patterns := normalize(keywords)
	if len(patterns) == 0 {
		return nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil
	}

	// Lowercasing can shift byte offsets for a handful of unicode
	// characters; bounds are validated before slicing.
	haystack := []byte(strings.ToLower(text))

	var spans []span
	for _, m := range ac.FindAllOverlapping(haystack) {
		if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
			continue
		}
		if !wholeWord(text, m.Start, m.End) {
			continue
		}
		spans = append(spans, span{start: m.Start, end: m.End})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	// Leftmost span wins; anything overlapping it is dropped.
	kept := spans[:0]
	lastEnd := 0
	for _, sp := range spans {
		if sp.start < lastEnd {
			continue
		}
		kept = append(kept, sp)
		lastEnd = sp.end
	}
	return kept
}

// normalize lowercases, trims and deduplicates the keyword set, keeping
// the original order.
func normalize(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// wholeWord reports whether text[start:end] sits on word boundaries.
func wholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
