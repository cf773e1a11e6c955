// Package extract converts classified files into plain text suitable for
// tokenization and indexing, implementing the Extractors component.
package extract

import (
	"fmt"
	"os"

	"github.com/dnlzrgz/housaku/pkg/core"
)

// TextExtractor converts the raw bytes of a file into a Document's body and
// metadata. Implementations must not mutate path's contents and return
// their underlying failure as is; the package-level Extract wraps it in
// core.ErrExtract so callers can isolate per-file errors without aborting
// an ingestion run.
type TextExtractor interface {
	// Extract reads path and returns its plain-text body and any metadata
	// the format carries (front matter, document properties, OS stat
	// fields). The returned body has not been tokenized.
	Extract(path string) (body string, metadata map[string]string, err error)
}

// registry maps a content type to the extractor responsible for it. Built
// once at package init; callers obtain an extractor through For.
var registry = map[core.ContentType]TextExtractor{
	core.MimeTextPlain:     plainExtractor{},
	core.MimeTextMarkdown:  markdownExtractor{},
	core.MimeTextCSV:       csvExtractor{},
	core.MimePDF:           pdfExtractor{},
	core.MimeEPUB:          epubExtractor{},
	core.MimeDOCX:          officeExtractor{kind: officeDocx},
	core.MimePPTX:          officeExtractor{kind: officePptx},
	core.MimeXLSX:          officeExtractor{kind: officeXlsx},
}

// For returns the TextExtractor registered for ct, or core.ErrUnsupportedFormat
// if no extractor handles that content type.
func For(ct core.ContentType) (TextExtractor, error) {
	e, ok := registry[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, ct)
	}

	return e, nil
}

// Extract classifies nothing itself: it dispatches path's bytes to the
// extractor registered for ct and folds in the file's OS-level metadata
// (name, size, last-modified time), matching the original implementation's
// get_file_metadata merge behavior.
func Extract(path string, ct core.ContentType) (string, map[string]string, error) {
	e, err := For(ct)
	if err != nil {
		return "", nil, err
	}

	body, metadata, err := e.Extract(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", core.ErrExtract, path, err)
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	for k, v := range fileMetadata(path) {
		if _, exists := metadata[k]; !exists {
			metadata[k] = v
		}
	}

	return body, metadata, nil
}

// fileMetadata stats path and returns the OS-level fields every extracted
// document carries regardless of format.
func fileMetadata(path string) map[string]string {
	info, err := os.Stat(path)
	if err != nil {
		return map[string]string{}
	}

	return map[string]string{
		"name":          info.Name(),
		"size":          fmt.Sprintf("%d", info.Size()),
		"last_modified": info.ModTime().UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
