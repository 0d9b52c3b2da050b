package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextStripsTags(t *testing.T) {
	markup := `<html><head><title>案内</title></head>
<body><h1>配送について</h1><p>送料は<b>1000円</b>です。</p></body></html>`

	got := ExtractText(markup)
	assert.Contains(t, got, "配送について")
	assert.Contains(t, got, "送料は1000円です。")
	assert.NotContains(t, got, "<")
}

func TestExtractTextDropsScriptAndStyle(t *testing.T) {
	markup := `<body>
<script>var secret = "ignore me";</script>
<style>.hidden { display: none; }</style>
<p>visible text</p>
</body>`

	got := ExtractText(markup)
	assert.Contains(t, got, "visible text")
	assert.NotContains(t, got, "ignore me")
	assert.NotContains(t, got, "display")
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	got := ExtractText("<p>a</p>\n\n  <p>b\t\tc</p>")
	assert.Equal(t, "a b c", got)
}

func TestExtractTextMalformedMarkup(t *testing.T) {
	// Unbalanced tags must degrade, not fail.
	got := ExtractText("<div><p>broken <b>markup</div>")
	assert.Contains(t, got, "broken")
	assert.Contains(t, got, "markup")
}

func TestStripMarkupEntities(t *testing.T) {
	got := stripMarkup("A&nbsp;&amp;&nbsp;B &lt;tag&gt;")
	assert.Equal(t, "A & B <tag>", got)
}
