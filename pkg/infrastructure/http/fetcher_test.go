package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><title>Home</title><body>hello</body></html>"))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/found", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/found", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body>caf\xe9</body></html>"))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.UserAgent()))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(timeout time.Duration, maxSize int64) *Fetcher {
	return NewFetcher(Config{
		Timeout:         timeout,
		MaxResponseSize: maxSize,
		UserAgent:       "triage-test/1.0",
	})
}

func TestFetcher_Fetch(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1<<20)

	resp, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, srv.URL+"/", resp.FinalURL)
	assert.Empty(t, resp.RedirectChain)
	assert.Contains(t, resp.Body, "<title>Home</title>")
	assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	assert.False(t, resp.Truncated)
}

func TestFetcher_RedirectChain(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1<<20)

	resp, err := f.Fetch(context.Background(), srv.URL+"/moved")
	require.NoError(t, err)

	assert.Equal(t, []int{http.StatusMovedPermanently, http.StatusFound}, resp.RedirectChain)
	assert.Equal(t, srv.URL+"/", resp.FinalURL)
	assert.Equal(t, srv.URL+"/moved", resp.URL)
}

func TestFetcher_TooManyRedirects(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1<<20)

	_, err := f.Fetch(context.Background(), srv.URL+"/loop")

	var failure *entity.FetchFailure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.Error(), "stopped after 10 redirects")
}

func TestFetcher_NonSuccessStatusIsNotAnError(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1<<20)

	resp, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFetcher_DecodesCharset(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1<<20)

	resp, err := f.Fetch(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Contains(t, resp.Body, "café")
}

func TestFetcher_Truncates(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(5*time.Second, 1024)

	resp, err := f.Fetch(context.Background(), srv.URL+"/big")
	require.NoError(t, err)
	assert.True(t, resp.Truncated)
	assert.Equal(t, 1024, resp.ContentLength)
	assert.Len(t, resp.Body, 1024)
}

func TestFetcher_Timeout(t *testing.T) {
	srv := newTestServer(t)
	f := newTestFetcher(100*time.Millisecond, 1<<20)

	_, err := f.Fetch(context.Background(), srv.URL+"/slow")

	var failure *entity.FetchFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, srv.URL+"/slow", failure.URL)
	assert.NotContains(t, failure.Err.Error(), "Get \"")
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(time.Second, 1<<20).Fetch(context.Background(), url)

	var failure *entity.FetchFailure
	assert.True(t, errors.As(err, &failure))
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	srv := newTestServer(t)
	resp, err := newTestFetcher(time.Second, 1<<20).Fetch(context.Background(), srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, "triage-test/1.0", resp.Body)
}
