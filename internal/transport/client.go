// Package transport downloads remote dataset files with retry and a disk
// cache. The Statewide Database and the Census Bureau both serve large
// static files, so every successful download is cached on disk keyed by URL
// and reused while fresh.
package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/censusalign/censusalign/pkg/constants"
	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/logging"
)

// Client downloads dataset files.
type Client struct {
	http     *http.Client
	cacheDir string
	ttl      time.Duration
	attempts uint
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTTL sets how long cached downloads stay fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithAttempts sets the maximum download attempts per file.
func WithAttempts(attempts uint) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// New creates a transport client caching into cacheDir.
func New(cacheDir string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: constants.DefaultHTTPTimeout},
		cacheDir: cacheDir,
		ttl:      constants.CacheTTL,
		attempts: constants.MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns a local path holding the body of url, downloading unless a
// fresh cached copy exists. The dataset name is used for error reporting
// and logging only.
func (c *Client) Fetch(ctx context.Context, dataset, url string) (string, error) {
	if err := os.MkdirAll(c.cacheDir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", c.cacheDir, err)
	}

	target := c.cachePath(url)
	if c.isFresh(target) {
		logging.Ctx(ctx).Debug().
			Str("dataset", dataset).
			Str("path", target).
			Msg("Using cached download")
		return target, nil
	}

	logging.Ctx(ctx).Info().
		Str("dataset", dataset).
		Str("url", url).
		Msg("Downloading dataset")

	err := retry.Do(
		func() error { return c.download(ctx, dataset, url, target) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(constants.RetryBackoff),
		retry.MaxDelay(constants.MaxRetryBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("dataset", dataset).
				Uint("attempt", attempt+1).
				Msg("Retrying download")
		}),
	)
	if err != nil {
		return "", err
	}
	return target, nil
}

// download performs one attempt, writing via a temp file so a partial body
// never lands at the cache path.
func (c *Client) download(ctx context.Context, dataset, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Unrecoverable(errors.WrapResource("create", "request", url, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapDataset(dataset, url, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		dsErr := errors.NewDatasetError(dataset, url, resp.StatusCode, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// The file is simply not there; retrying will not help.
			return retry.Unrecoverable(dsErr)
		}
		return dsErr
	}

	tempFile, err := os.CreateTemp(c.cacheDir, "download_*")
	if err != nil {
		return retry.Unrecoverable(errors.WrapIO("create", "temp file", err))
	}
	tempPath := tempFile.Name()

	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapDataset(dataset, url, 0, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("close", tempPath, err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return retry.Unrecoverable(errors.WrapIO("move", target, err))
	}
	return nil
}

// cachePath derives a stable cache file name from the URL, keeping the
// original extension so archive sniffing can use it.
func (c *Client) cachePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	name := hex.EncodeToString(sum[:8])
	if ext := path.Ext(url); ext != "" && len(ext) <= 5 {
		name += ext
	}
	return filepath.Join(c.cacheDir, name)
}

// isFresh reports whether a cached file exists and is within the TTL.
func (c *Client) isFresh(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}
	return time.Since(info.ModTime()) < c.ttl
}
