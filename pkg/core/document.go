// Package core defines the shared document model and error taxonomy for the
// indexing and retrieval engine. It has no dependency on any particular
// storage or extraction backend.
package core

import "time"

// ContentType identifies the format of a document's content. Values are
// either MIME strings (e.g. "text/plain", "application/pdf") or the
// extensionless tag "web" used for documents ingested from a feed.
type ContentType string

const (
	// ContentTypeWeb tags documents ingested from a syndicated feed entry.
	ContentTypeWeb ContentType = "web"

	MimeTextPlain    ContentType = "text/plain"
	MimeTextMarkdown ContentType = "text/markdown"
	MimeTextCSV      ContentType = "text/csv"
	MimePDF          ContentType = "application/pdf"
	MimeEPUB         ContentType = "application/epub+zip"
	MimeDOCX         ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePPTX         ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimeXLSX         ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document is the indexed unit: a single file or a single feed entry.
type Document struct {
	// URI is the absolute filesystem path for files, or the canonical entry
	// URL for feed entries. It is the globally unique key for the document.
	URI string
	// Title is the display name: the file basename, or the feed entry title
	// (falling back to the URL when the entry has none).
	Title string
	// Type discriminates the document's content kind.
	Type ContentType
	// Body is the full extracted plain-text content. Never nil; empty
	// bodies are permitted but discouraged.
	Body string
	// Fingerprint detects staleness for files: the SHA-256 digest of the
	// file's contents. It is empty for feed entries, where presence of URI
	// alone gates reindexing.
	Fingerprint string
	// Metadata is a free-form mapping. For files it holds name, size and
	// last_modified plus any format-specific keys (front matter, row, page,
	// slide or sheet counts); no creation time is recorded. Documents
	// ingested from feeds carry no metadata.
	Metadata map[string]string
}

// Result is a single ranked search hit.
type Result struct {
	URI     string
	Title   string
	Type    ContentType
	Snippet string
	Score   float64
}

// SnippetLen is the number of characters taken from the start of a
// document's body to produce its search-result snippet.
const SnippetLen = 300

// Snippet truncates body to SnippetLen characters (rune-safe).
func Snippet(body string) string {
	runes := []rune(body)
	if len(runes) <= SnippetLen {
		return body
	}

	return string(runes[:SnippetLen])
}

// IngestStatus is the per-item outcome of one ingestion attempt.
type IngestStatus string

const (
	StatusOk     IngestStatus = "Ok"
	StatusSkip   IngestStatus = "Skip"
	StatusUpdate IngestStatus = "Update"
	StatusErr    IngestStatus = "Err"
)

// IngestResult reports the outcome of ingesting a single file or feed entry.
type IngestResult struct {
	URI       string
	Status    IngestStatus
	Reason    string
	Timestamp time.Time
}
