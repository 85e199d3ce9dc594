package robots

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/scholartriage/pipeline/internal/robots/cache"
)

// RobotsFetcher fetches and caches robots.txt documents per host.
type RobotsFetcher struct {
	httpClient *http.Client
	userAgent  string
	cache      cache.Cache
}

// NewRobotsFetcher builds a RobotsFetcher with a default client.
func NewRobotsFetcher(userAgent string) *RobotsFetcher {
	return NewRobotsFetcherWithClient(userAgent, &http.Client{Timeout: 15 * time.Second})
}

// NewRobotsFetcherWithClient builds a RobotsFetcher with an injected client,
// used by tests to point at an httptest.Server.
func NewRobotsFetcherWithClient(userAgent string, client *http.Client) *RobotsFetcher {
	return &RobotsFetcher{httpClient: client, userAgent: userAgent, cache: cache.NewMemoryCache()}
}

func cacheKey(scheme, hostname string) string {
	return scheme + "://" + hostname
}

// Fetch retrieves robots.txt for scheme://hostname, using the cache when
// present. A 4xx response (other than 429) is treated as "no robots.txt" and
// yields an empty, permissive response rather than an error.
func (f *RobotsFetcher) Fetch(ctx context.Context, scheme, hostname string) (RobotsFetchResult, *RobotsError) {
	key := cacheKey(scheme, hostname)
	if cached, ok := f.cache.Get(key); ok {
		var c cachedResult
		if err := json.Unmarshal([]byte(cached), &c); err == nil {
			return RobotsFetchResult(c), nil
		}
	}

	url := scheme + "://" + hostname + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RobotsFetchResult{}, &RobotsError{Message: "build robots request: " + err.Error(), Cause: ErrCauseNetworkFailure, Retryable: false}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return RobotsFetchResult{}, &RobotsError{Message: "fetch robots.txt: " + err.Error(), Cause: ErrCauseNetworkFailure, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return RobotsFetchResult{}, &RobotsError{Message: "robots.txt rate limited", Cause: ErrCauseHttpTooManyRequests, Retryable: true}
	}
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return RobotsFetchResult{}, &RobotsError{Message: "too many redirects fetching robots.txt", Cause: ErrCauseTooManyRedirects, Retryable: false}
	}

	result := RobotsFetchResult{
		SourceURL:   url,
		FetchedAt:   time.Now().UTC(),
		HTTPStatus:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			result.Response = string(body)
		}
	}
	// 4xx (including 404) and 5xx beyond rate-limiting are treated as
	// "no usable robots.txt": callers get a permissive empty response.

	f.store(key, result)
	return result, nil
}

func (f *RobotsFetcher) store(key string, result RobotsFetchResult) {
	data, err := json.Marshal(cachedResult(result))
	if err != nil {
		return
	}
	f.cache.Put(key, string(data))
}
