package cachefile

import "errors"

var (
	// ErrEmpty is returned when a cache file has zero length.
	ErrEmpty = errors.New("cachefile: empty file")

	// ErrInaccessible is returned when a mapped region cannot be read back,
	// typically because the backing file was truncated after mapping.
	ErrInaccessible = errors.New("cachefile: mapped region is inaccessible")
)
