package extract

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdownExtractor splits off YAML front matter and renders the remaining
// Markdown body down to plain text for tokenization. The rendering approach
// is adapted from the goldmark-based renderer's ToPlainText: walk the parsed
// AST and collect text segments, inserting line breaks between block-level
// nodes so paragraphs and headings don't run together.
type markdownExtractor struct{}

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (markdownExtractor) Extract(path string) (string, map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	body, metadata := splitFrontMatter(string(raw))

	return toPlainText([]byte(body)), metadata, nil
}

// toPlainText strips Markdown formatting, returning text suitable for
// indexing: inline emphasis/links/code spans are flattened to their text
// content, code block contents are preserved, and block boundaries (
// paragraphs, headings, list items, table rows) are separated by newlines.
func toPlainText(src []byte) string {
	reader := text.NewReader(src)
	doc := markdownParser.Parser().Parse(reader)

	var buf bytes.Buffer

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))

			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.CodeSpan:
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					buf.Write(textNode.Segment.Value(src))
				}
			}

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := range lines.Len() {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}

			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			lines := node.Lines()
			for i := range lines.Len() {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}

			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			ensureNewline(&buf)
		case *east.Table, *east.TableRow, *east.TableHeader:
			ensureNewline(&buf)
		case *east.TableCell:
			if node.PreviousSibling() != nil {
				buf.WriteByte('\t')
			}
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

func ensureNewline(buf *bytes.Buffer) {
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
}
