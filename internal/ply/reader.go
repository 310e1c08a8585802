package ply

import (
	"bufio"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// File is a fully loaded point cloud file: its header and every element body
type File struct {
	Header *Header
}

// Elements returns the declared elements in header order
func (f *File) Elements() []*Element {
	return f.Header.Elements
}

// Element returns the element declared with the given name
func (f *File) Element(name string) (*Element, error) {
	for _, e := range f.Header.Elements {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, &UnknownElementError{Name: name}
}

// counts the bytes pulled from the underlying reader
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Load parses a header followed by the binary body of every declared element.
// Either the whole file is returned or an error describing the first problem.
func Load(r io.Reader) (*File, error) {
	return load(r, -1)
}

// LoadFile opens and loads the file at path. A missing file yields an error matching
// fs.ErrNotExist.
func LoadFile(path string) (file *File, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ply: opening %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			file = nil
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "ply: stat %s", path)
	}

	file, err = load(f, info.Size())
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return file, nil
}

func load(r io.Reader, size int64) (*File, error) {
	counter := &countingReader{r: r}
	reader := bufio.NewReader(counter)

	header, err := ParseHeader(reader)
	if err != nil {
		return nil, err
	}

	available := int64(-1)
	if size >= 0 {
		available = size - (counter.n - int64(reader.Buffered()))
	}

	for _, element := range header.Elements {
		if err := element.read(reader, available); err != nil {
			return nil, err
		}
		if available >= 0 {
			available -= int64(len(element.payload))
		}
		glog.V(2).Infof("ply: read element %s: %d bytes", element.Name, len(element.payload))
	}

	return &File{Header: header}, nil
}
