package app

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/GriffinCanCode/quizexport/internal/page"
)

// Source opens a fresh copy of the page for every click.
type Source interface {
	Open() (io.ReadCloser, error)
	String() string
}

// FileSource reads a saved page from disk. The file is reopened on every
// click, so re-saving the page in the browser is picked up.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

func (f FileSource) String() string {
	return string(f)
}

// ReaderSource drains r on first use and replays the same bytes afterwards.
// Reading stops one byte past the page size limit so Load can reject it.
type ReaderSource struct {
	name string
	r    io.Reader

	once sync.Once
	data []byte
	err  error
}

// NewReaderSource wraps r, typically stdin.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Open() (io.ReadCloser, error) {
	s.once.Do(func() {
		s.data, s.err = io.ReadAll(io.LimitReader(s.r, page.MaxPageSize+1))
	})
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *ReaderSource) String() string {
	return s.name
}
