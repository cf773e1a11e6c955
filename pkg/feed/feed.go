// Package feed fetches RSS/Atom feeds and the web pages they link to,
// implementing the Feed Fetcher component.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/tokenize"
)

// requestTimeout bounds every outbound HTTP request this package makes,
// mirroring the publisher's fixed per-request timeout.
const requestTimeout = 30 * time.Second

// Entry is a single item parsed out of a feed: its permalink and title.
type Entry struct {
	Link  string
	Title string
}

// NewHTTPClient returns the *http.Client every fetch in this package shares,
// configured the same way the publisher configures its outbound client.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// FetchFeed downloads feedURL and parses it as RSS or Atom, returning one
// Entry per item. A response status of 400 or above or a feed the parser cannot make sense
// of is reported as core.ErrFetch / core.ErrParse respectively so callers
// can isolate a single bad feed from the rest of a run.
func FetchFeed(ctx context.Context, client *http.Client, feedURL string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFetch, feedURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFetch, feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", core.ErrFetch, feedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFetch, feedURL, err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrParse, feedURL, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = item.Link
		}

		entries = append(entries, Entry{Link: item.Link, Title: title})
	}

	return entries, nil
}

// FetchPost downloads postURL and returns its <main> content as cleaned
// plain text, ready for tokenization.
func FetchPost(ctx context.Context, client *http.Client, postURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, postURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrFetch, postURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrFetch, postURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: %s returned HTTP %d", core.ErrFetch, postURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrFetch, postURL, err)
	}

	return tokenize.CleanHTML(string(body)), nil
}
