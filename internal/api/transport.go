package api

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingHTTPClient creates an HTTP client with response caching and the
// given cookie jar. Cacheable GETs (class schedules carry Cache-Control
// headers) are served from cache; everything else passes through.
func NewCachingHTTPClient(cacheDir string, jar http.CookieJar) *http.Client {
	var transport *httpcache.Transport
	if cacheDir == "" {
		transport = httpcache.NewTransport(httpcache.NewMemoryCache())
	} else {
		// Disk-based cache persists across restarts
		transport = httpcache.NewTransport(diskcache.New(cacheDir))
	}

	return &http.Client{
		Transport: transport,
		Jar:       jar,
	}
}
