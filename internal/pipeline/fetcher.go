package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/billhist/internal/cache"
	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/util"
	"github.com/ppiankov/billhist/internal/worker"
)

var (
	// ErrNotFound means the page does not exist (404, 410 and other 4xx)
	ErrNotFound = errors.New("document not found")

	// ErrTransient means the server or network failed (5xx, 429, timeouts)
	ErrTransient = errors.New("transient fetch failure")

	// ErrDisallowed means robots.txt forbids the page
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrInvalidURL means the URL cannot be requested at all, usually a
	// broken source pattern
	ErrInvalidURL = errors.New("invalid document URL")
)

// FetchError reports a failed fetch. It matches ErrNotFound, ErrTransient,
// ErrDisallowed or ErrInvalidURL through errors.Is, as well as its cause.
type FetchError struct {
	URL        string
	StatusCode int
	Kind       error
	Cause      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Kind, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %v: status %d", e.URL, e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Fetcher retrieves legislature pages. It is the document source for the
// prober and for session discovery.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// FetcherOption configures optional Fetcher collaborators
type FetcherOption func(*Fetcher)

// WithCache serves repeated fetches from c
func WithCache(c cache.Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithLimiter paces requests per host
func WithLimiter(l *worker.Limiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// WithRobots honours robots.txt rules and crawl delays
func WithRobots(r *util.RobotsChecker) FetcherOption {
	return func(f *Fetcher) { f.robots = r }
}

// NewFetcher creates a Fetcher from the HTTP settings
func NewFetcher(cfg model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.ProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of rawURL. An empty body is not an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if u, err := url.Parse(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Kind: ErrInvalidURL, Cause: err}
	} else if u.Scheme == "" || u.Host == "" {
		return nil, &FetchError{URL: rawURL, Kind: ErrInvalidURL, Cause: errors.New("missing scheme or host")}
	}

	key := cache.Key(rawURL)
	if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			return body, nil
		}
	}

	if err := f.wait(ctx, rawURL); err != nil {
		return nil, err
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil && len(body) > 0 {
		// A failed cache write only costs a refetch later
		_ = f.cache.Set(key, body, f.cacheTTL)
	}
	return body, nil
}

func (f *Fetcher) wait(ctx context.Context, rawURL string) error {
	var delay time.Duration
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.Check(ctx, rawURL)
		if err != nil {
			return &FetchError{URL: rawURL, Kind: ErrInvalidURL, Cause: err}
		}
		if !allowed {
			return &FetchError{URL: rawURL, Kind: ErrDisallowed}
		}
		delay = crawlDelay
	}

	if f.limiter == nil {
		return nil
	}
	if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return &FetchError{URL: rawURL, Kind: ErrTransient, Cause: err}
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: ErrInvalidURL, Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: ErrTransient, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Kind: classifyStatus(resp.StatusCode)}
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Kind: ErrTransient, Cause: err}
	}
	return body, nil
}

// classifyStatus maps a non-2xx status to ErrTransient or ErrNotFound
func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout, code >= 500:
		return ErrTransient
	default:
		return ErrNotFound
	}
}
