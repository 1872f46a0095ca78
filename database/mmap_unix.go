//go:build unix

package database

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps path read-only and returns the backing bytes alongside
// a closer that unmaps them when the caller is done with the View built
// over it. The file descriptor is closed before mmapFile returns; the
// mapping stays valid without it.
func mmapFile(path string) (data []byte, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := st.Size()
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	closer = func() error {
		return unix.Munmap(data)
	}
	return data, closer, nil
}
