package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnlzrgz/housaku/pkg/core"
)

type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]core.Document
	existFn func(uri string) (bool, error)
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]core.Document{}}
}

func (s *fakeStore) Exists(_ context.Context, uri string) (bool, error) {
	if s.existFn != nil {
		return s.existFn(uri)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uri]
	return ok, nil
}

func (s *fakeStore) Insert(_ context.Context, doc core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.URI] = doc
	return nil
}

func TestIndexFeeds_FetchesAndStoresNewEntries(t *testing.T) {
	post := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><main>post body</main></body></html>`))
	}))
	defer post.Close()

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel>
			<item><title>Post One</title><link>` + post.URL + `</link></item>
		</channel></rss>`))
	}))
	defer feedSrv.Close()

	store := newFakeStore()

	results := IndexFeeds(context.Background(), store, []string{feedSrv.URL}, 2)
	require.Len(t, results, 1)
	assert.Equal(t, core.StatusOk, results[0].Status)

	doc, ok := store.docs[post.URL]
	require.True(t, ok)
	assert.Equal(t, "post body", doc.Body)
	assert.Equal(t, core.ContentTypeWeb, doc.Type)
}

func TestIndexFeeds_SkipsAlreadyIndexedEntry(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel>
			<item><title>Existing</title><link>http://example.com/existing</link></item>
		</channel></rss>`))
	}))
	defer feedSrv.Close()

	store := newFakeStore()
	store.docs["http://example.com/existing"] = core.Document{URI: "http://example.com/existing"}

	results := IndexFeeds(context.Background(), store, []string{feedSrv.URL}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, core.StatusSkip, results[0].Status)
}

func TestIndexFeeds_IsolatesFailingFeed(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	goodSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`))
	}))
	defer goodSrv.Close()

	store := newFakeStore()
	results := IndexFeeds(context.Background(), store, []string{badSrv.URL, goodSrv.URL}, 2)

	require.Len(t, results, 1)
	assert.Equal(t, core.StatusErr, results[0].Status)
	assert.Equal(t, badSrv.URL, results[0].URI)
}
