package extract

import (
	"bytes"
	"compress/zlib"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestPDF(t *testing.T, streams [][]byte, compressed bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	for _, raw := range streams {
		payload := raw
		filter := ""
		if compressed {
			var zbuf bytes.Buffer
			w := zlib.NewWriter(&zbuf)
			_, err := w.Write(raw)
			require.NoError(t, err)
			require.NoError(t, w.Close())
			payload = zbuf.Bytes()
			filter = "/Filter /FlateDecode "
		}

		buf.WriteString("1 0 obj\n<< " + filter + "/Length " + itoa(len(payload)) + " >>\nstream\n")
		buf.Write(payload)
		buf.WriteString("\nendstream\nendobj\n")
	}

	buf.WriteString("%%EOF")
	return buf.Bytes()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestPDFExtractor_UncompressedTjOperator(t *testing.T) {
	data := buildTestPDF(t, [][]byte{[]byte("BT /F1 12 Tf (Hello World) Tj ET")}, false)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	body, _, err := pdfExtractor{}.Extract(path)
	require.NoError(t, err)
	assert.Contains(t, body, "Hello World")
}

func TestPDFExtractor_FlateCompressedTJArray(t *testing.T) {
	data := buildTestPDF(t, [][]byte{[]byte("BT /F1 12 Tf [(Foo)-250(Bar)] TJ ET")}, true)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	body, metadata, err := pdfExtractor{}.Extract(path)
	require.NoError(t, err)
	assert.Contains(t, body, "Foo")
	assert.Contains(t, body, "Bar")
	assert.Equal(t, "1", metadata["pages"])
}
