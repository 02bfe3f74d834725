//go:build !unix

package mmapfile

import (
	"fmt"
	"os"
)

// Open reads path into memory. Platforms without mmap get a heap copy.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: read: %w", err)
	}
	return &File{name: path, data: data}, nil
}

// Text returns the document as a string.
func (f *File) Text() string {
	return string(f.data)
}
