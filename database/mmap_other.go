//go:build !unix

package database

import "os"

// mmapFile falls back to a plain read on platforms without a POSIX
// mmap syscall. The View built over the result is still zero-copy with
// respect to this buffer; it just isn't backed by the page cache
// directly.
func mmapFile(path string) (data []byte, closer func() error, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
