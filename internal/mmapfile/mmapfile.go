// Package mmapfile loads documents for parsing without copying them onto the heap.
//
// On Unix the file is memory-mapped read-only and exposed as a string that
// aliases the mapping; elsewhere it is read with os.ReadFile. Strings derived
// from Text must not be retained after Close. The CSV parser copies every
// value it reports, so observer output stays valid.
package mmapfile

// File is a loaded document.
type File struct {
	name  string
	data  []byte
	close func() error
}

// Name returns the path the file was opened from.
func (f *File) Name() string {
	return f.name
}

// Len returns the size of the document in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Close releases the mapping. Text must not be used afterwards.
func (f *File) Close() error {
	if f.close == nil {
		return nil
	}
	err := f.close()
	f.close = nil
	f.data = nil
	return err
}
