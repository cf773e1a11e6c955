package tokenize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// removedTags are elements whose entire subtree is dropped before text
// extraction: script and style carry no readable content, video/img/canvas
// carry none that clean_html can represent as text.
var removedTags = map[string]struct{}{
	"script": {},
	"style":  {},
	"video":  {},
	"img":    {},
	"canvas": {},
}

// sanitizePolicy strips scripting and embedded-media elements (and every
// attribute, since none are needed once only text is extracted) before the
// DOM walk, as defense in depth against a malicious feed entry: feed posts
// are fetched from untrusted third-party servers. Structural elements are
// explicitly allowed so <main> survives for findMain to locate.
var sanitizePolicy = newSanitizePolicy()

func newSanitizePolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(
		"html", "head", "body", "main", "article", "section", "header", "footer", "nav",
		"div", "span", "p", "br", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tr", "th", "td",
		"a", "b", "i", "strong", "em", "small", "mark", "sub", "sup",
		"blockquote", "pre", "code", "q", "cite",
	)

	return policy
}

// CleanHTML sanitizes html, drops script/style/video/img/canvas subtrees,
// concatenates the text content of every <main> subtree, collapses
// whitespace runs to a single space, and trims the result. When the
// document has no <main> element the result is the empty string.
func CleanHTML(input string) string {
	sanitized := sanitizePolicy.Sanitize(input)

	doc, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return ""
	}

	var mains []*html.Node

	var findMain func(n *html.Node)

	findMain = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "main" {
			mains = append(mains, n)
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findMain(c)
		}
	}

	findMain(doc)

	if len(mains) == 0 {
		return ""
	}

	var buf strings.Builder

	for _, m := range mains {
		extractText(m, &buf)
		buf.WriteByte(' ')
	}

	return collapseWhitespace(buf.String())
}

// extractText appends the text content of n's subtree to buf, skipping
// subtrees rooted at removedTags.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, removed := removedTags[n.Data]; removed {
			return
		}
	}

	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
}

// collapseWhitespace replaces every run of whitespace with a single space
// and trims the result.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
