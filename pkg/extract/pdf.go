package extract

import (
	"bytes"
	"compress/zlib"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// pdfExtractor pulls the text-showing operators out of a PDF's content
// streams. No pure-Go PDF library appears among the example repos (PDF
// extraction there is handled by a C-backed library in another language
// entirely), so this walks the PDF object structure directly using only
// compress/zlib and regexp from the standard library. It recovers the
// visible text of simple, uncompressed-font PDFs; it does not attempt
// layout reconstruction, embedded font re-mapping, or encrypted documents.
type pdfExtractor struct{}

var (
	streamPattern = regexp.MustCompile(`(?s)(<<.*?>>)\s*stream\r?\n(.*?)endstream`)
	showTextRe    = regexp.MustCompile(`\((?:[^()\\]|\\.)*\)\s*Tj`)
	showArrayRe   = regexp.MustCompile(`\[(?:[^\[\]]|\\.)*\]\s*TJ`)
	parenLiteral  = regexp.MustCompile(`\((?:[^()\\]|\\.)*\)`)
)

func (pdfExtractor) Extract(path string) (string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var out strings.Builder
	pages := 0

	for _, m := range streamPattern.FindAllSubmatch(data, -1) {
		dict := string(m[1])
		raw := m[2]

		content := raw
		if strings.Contains(dict, "/FlateDecode") {
			if decoded, derr := inflate(raw); derr == nil {
				content = decoded
			} else {
				continue
			}
		}

		text := extractShowText(content)
		if text != "" {
			out.WriteString(text)
			out.WriteByte('\n')
			pages++
		}
	}

	return strings.TrimSpace(out.String()), map[string]string{
		"pages": strconv.Itoa(pages),
	}, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// extractShowText scans a decoded content stream for Tj/TJ text-showing
// operators and concatenates their literal string operands, decoding the
// PDF's backslash escape sequences.
func extractShowText(content []byte) string {
	var b strings.Builder

	for _, m := range showTextRe.FindAll(content, -1) {
		lit := parenLiteral.Find(m)
		if lit != nil {
			b.WriteString(decodePDFString(lit))
			b.WriteByte(' ')
		}
	}

	for _, m := range showArrayRe.FindAll(content, -1) {
		for _, lit := range parenLiteral.FindAll(m, -1) {
			b.WriteString(decodePDFString(lit))
		}
		b.WriteByte(' ')
	}

	return strings.TrimSpace(b.String())
}

// decodePDFString unescapes a PDF literal string token (including its
// surrounding parentheses) per the PDF spec's backslash sequences.
func decodePDFString(lit []byte) string {
	s := lit
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}

		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
