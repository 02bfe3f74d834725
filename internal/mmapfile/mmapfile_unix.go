//go:build unix

package mmapfile

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Open maps path into memory for reading.
//
//	f, err := mmapfile.Open("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	err = csv.Validate(f.Text())
func Open(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open: %w", err)
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmapfile: stat: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("mmapfile: %s is a directory", path)
	}

	size := stat.Size()
	if size == 0 {
		// Zero-length mappings are rejected by the kernel.
		return &File{name: path, data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap: %w", err)
	}

	return &File{
		name:  path,
		data:  data,
		close: func() error { return unix.Munmap(data) },
	}, nil
}

// Text returns the document as a string aliasing the mapping.
func (f *File) Text() string {
	if len(f.data) == 0 {
		return ""
	}
	return unsafe.String(&f.data[0], len(f.data))
}
