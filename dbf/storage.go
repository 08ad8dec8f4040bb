package dbf

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// storage is the byte store a Table addresses. Both variants use file
// offsets, so the layouts they hold are identical.
type storage interface {
	io.Closer
	io.WriterAt
	io.ReaderAt

	// Size is the number of bytes currently held.
	Size() (int64, error)
	// flush makes the first size bytes durable.
	flush(size int64) error
	memoryResident() bool
}

// fileStorage issues every read and write against the open file.
type fileStorage struct {
	*os.File
}

func (s fileStorage) Size() (size int64, err error) {
	stat, err := s.Stat()
	if err != nil {
		return
	}
	size = stat.Size()
	return
}

func (s fileStorage) flush(int64) error {
	return nil
}

func (fileStorage) memoryResident() bool {
	return false
}

// memoryStorage keeps the whole table in one byte image and writes it back
// to the file only on flush.
type memoryStorage struct {
	image []byte
	file  *os.File
}

// loadMemoryStorage reads size bytes of f into an image with room for
// reserve more bytes. A missing EOF marker is tolerated.
func loadMemoryStorage(f *os.File, size, reserve int64) (*memoryStorage, error) {
	image := make([]byte, size, size+reserve)
	n, err := f.ReadAt(image, 0)
	if int64(n) < size-1 {
		if err == nil || err == io.EOF {
			err = errors.Errorf("short image read of %d bytes (wanted %d)", n, size)
		}
		return nil, errors.Wrap(err, "load image")
	}
	if int64(n) == size-1 {
		image[size-1] = fileEnd
	}
	return &memoryStorage{image: image, file: f}, nil
}

func (s *memoryStorage) Size() (int64, error) {
	return int64(len(s.image)), nil
}

func (s *memoryStorage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	if off >= int64(len(s.image)) {
		return 0, io.EOF
	}
	n := copy(p, s.image[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt grows the image when the write extends past its end.
func (s *memoryStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	end := off + int64(len(p))
	if end > int64(len(s.image)) {
		s.grow(end)
	}
	return copy(s.image[off:end], p), nil
}

func (s *memoryStorage) grow(size int64) {
	if size <= int64(cap(s.image)) {
		s.image = s.image[:size]
		return
	}
	image := make([]byte, size, size+size/4)
	copy(image, s.image)
	s.image = image
}

// reserve makes sure the image can take n more bytes without reallocating.
func (s *memoryStorage) reserve(n int64) {
	if int64(cap(s.image)-len(s.image)) >= n {
		return
	}
	image := make([]byte, len(s.image), int64(len(s.image))+n)
	copy(image, s.image)
	s.image = image
}

func (s *memoryStorage) flush(size int64) error {
	if size > int64(len(s.image)) {
		return errors.Errorf("flush of %d bytes beyond image of %d", size, len(s.image))
	}
	n, err := s.file.WriteAt(s.image[:size], 0)
	if err != nil {
		return errors.Wrap(err, "write image")
	}
	if int64(n) != size {
		return errors.Errorf("short image write of %d bytes (wanted %d)", n, size)
	}
	return nil
}

func (*memoryStorage) memoryResident() bool {
	return true
}

func (s *memoryStorage) Close() error {
	s.image = nil
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
