package walk

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dnlzrgz/housaku/pkg/core"
)

// Classify determines the MIME type of the file at path. It sniffs the
// file's content first (matching the original OS MIME database lookup's
// role of identifying a file's type independent of its name) and falls back
// to the extension-keyed mime package when sniffing is inconclusive or the
// file cannot be read. Detection failure for an entirely unknown type
// surfaces core.ErrUnsupportedFormat, which callers log and skip per-file.
func Classify(path string) (core.ContentType, error) {
	if mt, err := mimetype.DetectFile(path); err == nil {
		if ct, ok := normalize(mt.String(), path); ok {
			return ct, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if guessed := mime.TypeByExtension(ext); guessed != "" {
		if ct, ok := normalize(guessed, path); ok {
			return ct, nil
		}
	}

	if ct, ok := byExtension(ext); ok {
		return ct, nil
	}

	return "", fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, path)
}

// normalize maps a sniffed or guessed MIME string (which may carry a
// charset parameter, e.g. "text/plain; charset=utf-8") onto one of the
// content types the extractors understand.
func normalize(raw, path string) (core.ContentType, bool) {
	base, _, _ := strings.Cut(raw, ";")
	base = strings.TrimSpace(base)

	switch core.ContentType(base) {
	case core.MimePDF, core.MimeEPUB, core.MimeDOCX, core.MimePPTX, core.MimeXLSX:
		return core.ContentType(base), true
	case core.MimeTextMarkdown:
		return core.MimeTextMarkdown, true
	case core.MimeTextCSV:
		return core.MimeTextCSV, true
	case core.MimeTextPlain:
		return extensionOverride(path, core.MimeTextPlain), true
	}

	return "", false
}

// extensionOverride refines a generic text/plain sniff result using the
// file extension, since content sniffing cannot distinguish Markdown or CSV
// from plain text by content alone.
func extensionOverride(path string, fallback core.ContentType) core.ContentType {
	if ct, ok := byExtension(strings.ToLower(filepath.Ext(path))); ok {
		return ct
	}

	return fallback
}

// byExtension is the fallback classifier keyed purely on file extension,
// used when neither content sniffing nor the OS MIME database resolves a
// type, and to disambiguate text/plain sniffs into markdown or CSV.
func byExtension(ext string) (core.ContentType, bool) {
	switch ext {
	case ".txt", ".text":
		return core.MimeTextPlain, true
	case ".md", ".markdown":
		return core.MimeTextMarkdown, true
	case ".csv":
		return core.MimeTextCSV, true
	case ".pdf":
		return core.MimePDF, true
	case ".epub":
		return core.MimeEPUB, true
	case ".docx":
		return core.MimeDOCX, true
	case ".pptx":
		return core.MimePPTX, true
	case ".xlsx":
		return core.MimeXLSX, true
	}

	return "", false
}
