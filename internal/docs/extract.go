package docs

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reScriptBlock = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	reStyleBlock  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	reTag         = regexp.MustCompile(`<[^>]*>`)
)

// ExtractText turns fetched HTML into plain text for matching: script and
// style subtrees are dropped with their content, the remaining markup is
// stripped, and whitespace runs are collapsed. Malformed markup is never
// fatal; extraction is best effort.
func ExtractText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return stripMarkup(markup)
	}
	doc.Find("script, style, noscript").Remove()
	return collapseWhitespace(doc.Text())
}

// stripMarkup is the regex fallback for input the HTML parser refuses. It
// also handles bare fragments such as feed item descriptions.
func stripMarkup(markup string) string {
	text := reScriptBlock.ReplaceAllString(markup, " ")
	text = reStyleBlock.ReplaceAllString(text, " ")
	text = reTag.ReplaceAllString(text, " ")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	).Replace(text)
	return collapseWhitespace(text)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
