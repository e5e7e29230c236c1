//go:build !linux && !darwin

package cachefile

import "os"

// Open reads path fully into a heap buffer on platforms without mmap
// support. The resulting File behaves identically from the caller's
// perspective, just without the zero-copy benefit.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return &File{data: data, impl: heapImpl{}}, nil
}

type heapImpl struct{}

func (heapImpl) close() error { return nil }
