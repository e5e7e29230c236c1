package desktopentry

import "errors"

var (
	// ErrCacheVersion is returned when a cache file's version word does
	// not match the version this package writes; the caller falls back to
	// a live scan.
	ErrCacheVersion = errors.New("desktopentry: unsupported cache version")

	// ErrCacheStale is returned by the cache-load path when a watched
	// path's recorded mtime no longer matches the filesystem; the caller
	// falls back to a live scan.
	ErrCacheStale = errors.New("desktopentry: cache is stale")
)
