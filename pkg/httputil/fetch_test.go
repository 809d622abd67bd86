package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/spacemark/pkg/cache"
	"github.com/matzehuels/spacemark/pkg/errors"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(c, nil)
	f.Delay = time.Millisecond
	return f
}

func TestFetcherCachesBody(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	ctx := context.Background()
	for range 2 {
		body, err := f.Get(ctx, "test", srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("body = %q", body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(t).Get(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" || hits.Load() != 3 {
		t.Errorf("body=%q hits=%d", body, hits.Load())
	}
}

func TestFetcherStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		code   errors.Code
		hits   int32
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound, 1},
		{http.StatusForbidden, errors.ErrCodeNetwork, 1},
		{http.StatusServiceUnavailable, errors.ErrCodeNetwork, 3},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestFetcher(t).Get(context.Background(), "test", srv.URL)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
			if hits.Load() != tt.hits {
				t.Errorf("hits = %d, want %d", hits.Load(), tt.hits)
			}
		})
	}
}

func TestFetcherRejectsBadURL(t *testing.T) {
	_, err := NewFetcher(nil, nil).Get(context.Background(), "test", "ftp://example.com/x")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
