package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/ninja-snatch/pkg/caching"
)

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div class="card">hi</div></body></html>`))
	})
	mux.HandleFunc("/site.css", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`.card { color: red; }`))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetHtml(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	f := NewFetcher(5*time.Second, nil, nil)

	doc, err := f.GetHtml(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	el, err := doc.Select(".card")
	require.NoError(t, err)
	assert.Equal(t, "hi", el.DirectText())
	assert.Equal(t, srv.URL+"/page", doc.URL.String())
}

func TestGetHtmlBytesUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	var accesses []int
	f := NewFetcher(5*time.Second, cache, nil)
	f.OnAccess = func(_ string, status int, _ error) { accesses = append(accesses, status) }

	for range 3 {
		_, err := f.GetHtmlBytes(context.Background(), srv.URL+"/page")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, []int{200}, accesses)
}

func TestGetHtmlBytesErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	var statuses []int
	f := NewFetcher(5*time.Second, nil, nil)
	f.OnAccess = func(_ string, status int, err error) {
		assert.Error(t, err)
		statuses = append(statuses, status)
	}

	_, err := f.GetHtmlBytes(context.Background(), srv.URL+"/gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
	assert.Equal(t, []int{http.StatusGone}, statuses)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.GetHtmlBytes(ctx, srv.URL+"/page")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	u, err := url.Parse(srv.URL + "/site.css")
	require.NoError(t, err)

	data, err := NewFetcher(5*time.Second, nil, nil).Load(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, ".card { color: red; }", string(data))
}
