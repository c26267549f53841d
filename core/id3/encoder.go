package id3

import (
	"bytes"

	"github.com/pkg/errors"
)

// An Encoder writes tags. The zero value writes no padding.
type Encoder struct {
	// Padding is the number of zero bytes written after the last frame,
	// inside the tag.
	Padding int
}

// Dump is (&Encoder{}).Dump.
func Dump(t *Tag, original []byte) ([]byte, error) {
	return (&Encoder{}).Dump(t, original)
}

// Dump encodes t and appends everything in original that follows
// original's own tag. If original has no tag, all of it is appended.
//
// Frames are written with the size rule and flag layout of t's major
// version. Only the unsynchronisation and experimental header flags are
// written; the extended header and footer are never written.
func (e *Encoder) Dump(t *Tag, original []byte) ([]byte, error) {
	if t.Version.Major != 3 && t.Version.Major != 4 {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%s", t.Version)
	}
	if e.Padding < 0 {
		return nil, errors.Errorf("id3: negative padding %d", e.Padding)
	}

	var frames bytes.Buffer
	for _, f := range t.Frames {
		if err := writeFrame(&frames, f, t.Version.Major); err != nil {
			return nil, err
		}
	}
	size := frames.Len() + e.Padding
	if size > maxSynchsafe {
		return nil, errors.Wrapf(ErrTooLarge, "tag size %d", size)
	}

	rest := original[TagEnd(original):]
	out := make([]byte, tagHeaderSize, tagHeaderSize+size+len(rest))
	copy(out, magic)
	out[3] = t.Version.Major
	out[4] = t.Version.Revision
	if t.Flags.Unsynchronisation {
		out[5] |= flagUnsynchronisation
	}
	if t.Flags.Experimental {
		out[5] |= flagExperimental
	}
	putSynchsafeSize(out[6:10], uint32(size))

	out = append(out, frames.Bytes()...)
	out = append(out, make([]byte, e.Padding)...)
	out = append(out, rest...)
	Logging.Printf("id3: dumped %s, %d frames, size %d, %d trailing bytes", t.Version, len(t.Frames), size, len(rest))
	return out, nil
}

func writeFrame(buf *bytes.Buffer, f Frame, major byte) error {
	id, err := ISO88591.Encode(string(f.ID))
	if err != nil || len(id) != 4 {
		return &FrameError{ID: f.ID, Offset: -1, Err: ErrInvalidFrameID}
	}
	body, err := EncodeContent(f.Content)
	if err != nil {
		return &FrameError{ID: f.ID, Offset: -1, Err: err}
	}
	if len(body) > maxSynchsafe {
		return &FrameError{ID: f.ID, Offset: -1, Err: errors.Wrapf(ErrTooLarge, "frame size %d", len(body))}
	}

	var hdr [frameHeaderSize]byte
	copy(hdr[:4], id)
	putFrameSize(hdr[4:8], uint32(len(body)), major)
	hdr[8], hdr[9] = encodeFrameFlags(f.Flags, major)
	buf.Write(hdr[:])
	buf.Write(body)
	return nil
}
