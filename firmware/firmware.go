package firmware

import (
	"fmt"

	"github.com/arduino/go-paths-helper"
	"github.com/pkg/errors"
)

// TempPrefix is the name prefix of staged image files.
const TempPrefix = "dfu-firmware-"

// Size limits of the keyboard firmware images shipped for the STM32F4
// target. Images outside this range are almost certainly the wrong file.
const (
	// DefaultMinSize is the smallest plausible image
	DefaultMinSize = 20 * 1024

	// DefaultMaxSize is the largest plausible image
	DefaultMaxSize = 64 * 1024
)

// Staged is a firmware image written to a temporary file.
type Staged struct {
	path    *paths.Path
	size    int
	removed bool
}

// Stage writes data to a new temporary file in the system temp directory.
func Stage(data []byte) (*Staged, error) {
	return StageIn(nil, data)
}

// StageIn writes data to a new temporary file in dir. A nil dir selects the
// system temp directory.
func StageIn(dir *paths.Path, data []byte) (*Staged, error) {
	if len(data) == 0 {
		return nil, errors.New("firmware image is empty")
	}

	p, err := paths.WriteToTempFile(data, dir, TempPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stage firmware image")
	}

	return &Staged{path: p, size: len(data)}, nil
}

// Path returns the location of the staged file.
func (s *Staged) Path() *paths.Path {
	return s.path
}

// Size returns the image size in bytes.
func (s *Staged) Size() int {
	return s.size
}

// Remove deletes the staged file. Calling it more than once is a no-op.
func (s *Staged) Remove() error {
	if s.removed {
		return nil
	}
	if err := s.path.Remove(); err != nil {
		return errors.Wrapf(err, "failed to remove staged firmware %s", s.path)
	}
	s.removed = true
	return nil
}

// Load reads a firmware image from path.
func Load(path *paths.Path) ([]byte, error) {
	if path == nil {
		return nil, errors.New("firmware path is empty")
	}
	if path.NotExist() {
		return nil, errors.Errorf("firmware file %s does not exist", path)
	}
	if path.IsDir() {
		return nil, errors.Errorf("firmware path %s is a directory", path)
	}

	data, err := path.ReadFile()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read firmware file %s", path)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("firmware file %s is empty", path)
	}
	return data, nil
}

// SizeError indicates that an image size is outside the accepted range.
type SizeError struct {
	Size int
	Min  int
	Max  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("firmware size %d bytes is out of range: valid range is %d-%d bytes",
		e.Size, e.Min, e.Max)
}

// CheckSize returns a *SizeError unless min < size < max.
func CheckSize(size, min, max int) error {
	if size <= min || size >= max {
		return &SizeError{Size: size, Min: min, Max: max}
	}
	return nil
}
