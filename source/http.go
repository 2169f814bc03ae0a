package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/source/weburl"
)

type cachedResponse struct {
	etag string
	body []byte
}

// fetcher performs validated GETs with retries, a size limit and an ETag
// cache for repeated requests to the same URL.
type fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
	retry          retry.Config
	validate       func(string) error
	logger         *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedResponse
}

func newFetcher(cfg config.SourceConfig, logger *slog.Logger) *fetcher {
	f := &fetcher{
		userAgent:      cfg.UserAgent,
		maxContentSize: cfg.MaxContentSize,
		retry: retry.Config{
			MaxAttempts:  cfg.RetryAttempts,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
			AddJitter:    true,
		},
		logger: logger,
		cache:  make(map[string]cachedResponse),
	}
	if f.retry.MaxDelay < f.retry.InitialDelay {
		f.retry.MaxDelay = f.retry.InitialDelay
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	if cfg.AllowInsecure {
		f.validate = func(string) error { return nil }
	} else {
		f.validate = weburl.ValidateURL
		transport.DialContext = weburl.SafeDialContext(dialer)
	}

	f.client = &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			if err := f.validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}
	return f
}

// get returns the body at rawURL. Network errors, 429 and 5xx responses are
// retried; everything else fails immediately.
func (f *fetcher) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := f.validate(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}

	var body []byte
	err := retry.Do(ctx, f.retry, func() error {
		b, err := f.attempt(ctx, rawURL, accept)
		if err != nil {
			f.logger.Debug("Fetch attempt failed", "url", rawURL, "error", err)
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, err)
	}
	return body, nil
}

func (f *fetcher) attempt(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	f.mu.Lock()
	cached, hasCached := f.cache[rawURL]
	f.mu.Unlock()
	if hasCached && cached.etag != "" {
		req.Header.Set("If-None-Match", cached.etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.NonRetryable(err)
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCached:
		f.logger.Debug("Not modified, using cached body", "url", rawURL)
		return cached.body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, retry.NonRetryable(fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxContentSize {
		return nil, retry.NonRetryable(fmt.Errorf("%w (exceeds %d bytes)", ErrTooLarge, f.maxContentSize))
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		f.mu.Lock()
		f.cache[rawURL] = cachedResponse{etag: etag, body: body}
		f.mu.Unlock()
	}
	return body, nil
}
