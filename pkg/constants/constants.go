// Package constants provides shared constants used throughout the censusalign codebase.
// This includes timeouts, retry policy, file permissions, and cache settings
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single HTTP request.
	// Shapefile archives run tens of megabytes, so this is generous.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// HarvestTimeout is the timeout for fetching all datasets for a vintage
	HarvestTimeout = 30 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// RetryBackoff is the base backoff duration for download retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for download retries
	MaxRetryBackoff = 30 * time.Second

	// CacheTTL is how long a cached dataset download stays fresh
	CacheTTL = 24 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of attempts for a dataset download
	MaxRetries = 3

	// MaxConcurrentDownloads caps concurrent dataset downloads during harvest
	MaxConcurrentDownloads = 4

	// MaxArchiveMemberSize caps the decompressed size accepted for a single
	// archive member, guarding against malformed archives
	MaxArchiveMemberSize = int64(2) << 30
)
