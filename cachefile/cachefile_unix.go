//go:build linux || darwin

package cachefile

import (
	"fmt"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

// Open memory-maps path read-only with MAP_PRIVATE: callers may never
// legally write through the view, and the kernel is free to share physical
// pages across every process that maps the same cache file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		return nil, ErrEmpty
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(sz), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("cachefile: mmap: %w", err)
	}

	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	if err := preFault(data); err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}

	return &File{data: data, impl: mmapImpl{data: data}}, nil
}

type mmapImpl struct {
	data []byte
}

func (m mmapImpl) close() error {
	return unix.Munmap(m.data)
}

// preFault touches one byte per page so that a truncated or otherwise
// inaccessible backing file surfaces as an error here instead of a SIGBUS
// deep inside a later lookup.
func preFault(data []byte) (retErr error) {
	if len(data) == 0 {
		return nil
	}
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w: %v", ErrInaccessible, r)
		}
	}()

	const pageSize = 4096
	var sink byte
	for i := 0; i < len(data); i += pageSize {
		sink ^= data[i]
	}
	sink ^= data[len(data)-1]
	_ = sink
	return nil
}
