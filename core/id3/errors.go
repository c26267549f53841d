package id3

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTruncated          = errors.New("id3: data ends before declared size")
	ErrUnsupportedVersion = errors.New("id3: unsupported version")
	ErrInvalidEncoding    = errors.New("id3: invalid text encoding")
	ErrUnencodable        = errors.New("id3: text not representable in encoding")
	ErrInvalidFrameID     = errors.New("id3: frame id must be 4 bytes")
	ErrInvalidLanguage    = errors.New("id3: language must be 3 bytes")
	ErrTooLarge           = errors.New("id3: size exceeds synchsafe range")
)

// FrameError records the frame a parse or dump failure happened in.
type FrameError struct {
	ID     FrameID
	Offset int // offset of the frame header in the input, -1 when dumping
	Err    error
}

func (e *FrameError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("id3: frame %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("id3: frame %q at offset %d: %v", e.ID, e.Offset, e.Err)
}

func (e *FrameError) Cause() error  { return e.Err }
func (e *FrameError) Unwrap() error { return e.Err }
