package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/spacemark/pkg/buildinfo"
	"github.com/matzehuels/spacemark/pkg/cache"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/observability"
)

// maxBody caps downloaded documents.
const maxBody = 8 << 20

// Fetcher downloads documents through a cache.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration

	// Attempts and Delay tune [Retry]. Both zero means [RetryWithBackoff];
	// otherwise a zero Attempts means 3.
	Attempts int
	Delay    time.Duration
}

// NewFetcher returns a fetcher with a 30s client timeout. A nil cache
// disables caching.
func NewFetcher(c cache.Cache, keyer cache.Keyer) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.TTLHTTP,
	}
}

// Get returns the body at url, serving it from the cache when present.
func (f *Fetcher) Get(ctx context.Context, namespace, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	key := f.Keyer.HTTPKey(namespace, url)
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "http")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "http")

	var body []byte
	fetch := func() error {
		var err error
		body, err = f.do(ctx, url)
		return err
	}
	var err error
	if f.Attempts == 0 && f.Delay == 0 {
		err = RetryWithBackoff(ctx, fetch)
	} else {
		attempts := f.Attempts
		if attempts == 0 {
			attempts = 3
		}
		err = Retry(ctx, attempts, f.Delay, fetch)
	}
	if err != nil {
		return nil, err
	}

	if err := f.Cache.Set(ctx, key, body, f.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "GET %s: not found", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: %s", url, resp.Status))
	case resp.StatusCode >= 300:
		return nil, errors.New(errors.ErrCodeNetwork, "GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, Retryable(fmt.Errorf("read body: %w", err))
	}
	return body, nil
}
