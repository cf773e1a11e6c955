package core

import "errors"

// Sentinel errors for the taxonomy each component reports. Callers use
// errors.Is to classify a failure without depending on its wrapped detail.
var (
	// ErrUnsupportedFormat is returned when a classifier or extractor cannot
	// handle a document's MIME type. Per-file, logged, and skipped.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtract is returned when a parser fails on an otherwise supported
	// input document. Per-file, logged, and skipped.
	ErrExtract = errors.New("extraction failed")
	// ErrFetch is returned when an HTTP request for a feed or post fails
	// (status >= 400 or a transport error). Per-entry or per-feed, logged,
	// and skipped.
	ErrFetch = errors.New("fetch failed")
	// ErrParse is returned when a feed document cannot be parsed as
	// RSS/Atom. Per-feed, logged, and skipped.
	ErrParse = errors.New("feed parse failed")
	// ErrStore is returned on a database failure. The inner transaction is
	// rolled back and the enclosing operation aborts.
	ErrStore = errors.New("store error")
	// ErrQuery is returned for a malformed query string. Surfaces to the
	// caller with no state change.
	ErrQuery = errors.New("query error")
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
)
