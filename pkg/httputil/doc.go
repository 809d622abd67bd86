// Package httputil fetches remote documents with retry and caching.
//
// [Fetcher] wraps an http.Client: transient failures (network errors, 5xx
// and 429 responses) are retried with exponential backoff through [Retry],
// and successful bodies are stored in a [cache.Cache] under a namespaced
// key.
//
//	f := httputil.NewFetcher(c, nil)
//	schema, err := f.Get(ctx, "schema", manifest.SchemaURL)
//
// Wrap errors with [Retryable] to make [Retry] try again; any other error
// stops it immediately.
package httputil
