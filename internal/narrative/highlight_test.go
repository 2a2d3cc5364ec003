package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/memory-cartography/internal/model"
)

func TestHighlight_WholeWordSingleOccurrence(t *testing.T) {
	got := Highlight("The cat sat on the mat", []string{"cat"})
	assert.Equal(t, `The <mark class="keyword">cat</mark> sat on the mat`, got)
	assert.Equal(t, 1, strings.Count(got, markOpen))
}

func TestHighlight_CaseInsensitiveKeepsOriginalCasing(t *testing.T) {
	got := Highlight("Cat naps. A CAT nap.", []string{"cat"})
	assert.Contains(t, got, `<mark class="keyword">Cat</mark>`)
	assert.Contains(t, got, `<mark class="keyword">CAT</mark>`)
}

func TestHighlight_NoMatchInsideWords(t *testing.T) {
	got := Highlight("a catalog of cats", []string{"cat"})
	assert.NotContains(t, got, `<mark class="keyword">cat</mark>alog`)
	assert.Equal(t, 0, strings.Count(got, markOpen), "cat only appears inside longer words")
}

func TestHighlight_NoCollisionWithInjectedMarkup(t *testing.T) {
	// "mark" and "class" both appear in the injected markup; a naive
	// repeated substitution would re-match inside it.
	got := Highlight("the class mark", []string{"mark", "class"})
	assert.Equal(t,
		`the <mark class="keyword">class</mark> <mark class="keyword">mark</mark>`,
		got)
}

func TestHighlight_OverlapKeepsLeftmostLongest(t *testing.T) {
	got := Highlight("we walked through new york at night", []string{"new york", "york"})
	assert.Contains(t, got, `<mark class="keyword">new york</mark>`)
	assert.Equal(t, 1, strings.Count(got, markOpen))
}

func TestHighlight_SanitizesExecutableContent(t *testing.T) {
	got := Highlight(`the beach <script>alert(1)</script> at dusk`, []string{"beach"})
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "alert(1)")
	assert.Contains(t, got, `<mark class="keyword">beach</mark>`)
}

func TestHighlight_EmptyInputs(t *testing.T) {
	assert.Equal(t, "", Highlight("", []string{"cat"}))
	assert.Equal(t, "plain text", Highlight("plain text", nil))
	assert.Equal(t, "plain text", Highlight("plain text", []string{"", "  "}))
}

func TestRender(t *testing.T) {
	n := model.Narrative{
		Text:     "Summers by the harbor",
		Keywords: []string{"harbor"},
	}
	assert.Equal(t, `Summers by the <mark class="keyword">harbor</mark>`, Render(n))
}
