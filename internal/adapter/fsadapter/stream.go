package fsadapter

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/afero"
)

// fileStream reads a run file sequentially. onDone runs once, on EOF, on the
// first read error or on Close, whichever comes first.
type fileStream struct {
	file   afero.File
	once   sync.Once
	onDone func()
}

// Stream opens path for reading. If the file cannot be opened onDone is still
// called before the error is returned.
func (a *fsAdapter) Stream(path string, onDone func()) (io.ReadCloser, error) {
	if onDone == nil {
		onDone = func() {}
	}

	f, err := a.fs.Open(path)
	if err != nil {
		onDone()

		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	return &fileStream{file: f, onDone: onDone}, nil
}

func (s *fileStream) Read(p []byte) (int, error) {
	n, err := s.file.Read(p)
	if err != nil {
		s.finish()
	}

	return n, err
}

func (s *fileStream) Close() error {
	return s.finish()
}

func (s *fileStream) finish() error {
	var err error
	s.once.Do(func() {
		err = s.file.Close()
		s.onDone()
	})

	return err
}
