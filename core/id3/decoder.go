package id3

import (
	"github.com/pkg/errors"
)

// Parse decodes the ID3v2 tag at the start of b. It returns nil and no
// error when b does not start with a tag.
//
// Everything after the magic is expected to be well formed: a header or
// frame that runs past the end of b fails the whole parse. A frame whose
// content can't be decoded is kept as UnknownContent instead.
func Parse(b []byte) (*Tag, error) {
	if !HasTag(b) {
		return nil, nil
	}
	if len(b) < tagHeaderSize {
		return nil, errors.Wrap(ErrTruncated, "tag header")
	}

	t := &Tag{Version: Version{Major: b[3], Revision: b[4]}}
	if t.Version.Major != 3 && t.Version.Major != 4 {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%s", t.Version)
	}

	flags := b[5]
	t.Flags = TagFlags{
		Unsynchronisation: flags&flagUnsynchronisation != 0,
		Experimental:      flags&flagExperimental != 0,
	}
	size := int(synchsafeSize(b[6:10]))
	end := tagHeaderSize + size
	if end > len(b) {
		return nil, errors.Wrapf(ErrTruncated, "tag size %d, have %d bytes", size, len(b)-tagHeaderSize)
	}
	Logging.Printf("id3: %s flags %#02x size %d", t.Version, flags, size)

	off := tagHeaderSize
	if flags&flagExtendedHeader != 0 {
		n, err := extendedHeaderSize(b[off:end], t.Version.Major)
		if err != nil {
			return nil, err
		}
		Logging.Printf("id3: skipping %d byte extended header", n)
		off += n
	}

	for off < end {
		if end-off < frameHeaderSize {
			if isPadding(b[off:end]) {
				break
			}
			return nil, &FrameError{Offset: off, Err: errors.Wrap(ErrTruncated, "frame header")}
		}
		if isPadding(b[off : off+4]) {
			Logging.Printf("id3: padding at offset %d, %d bytes", off, end-off)
			break
		}

		f, n, err := parseFrame(b[off:end], t.Version.Major)
		if err != nil {
			err.Offset = off
			return nil, err
		}
		t.Frames = append(t.Frames, f)
		off += n
	}
	return t, nil
}

// extendedHeaderSize returns the number of bytes to skip for the
// extended header at the start of b. The v2.4 size counts its own size
// field, the v2.3 size doesn't.
func extendedHeaderSize(b []byte, major byte) (int, error) {
	if len(b) < 4 {
		return 0, errors.Wrap(ErrTruncated, "extended header")
	}
	n := int(frameSize(b, major))
	if major < 4 {
		n += 4
	}
	if n < 4 || n > len(b) {
		return 0, errors.Wrapf(ErrTruncated, "extended header size %d", n)
	}
	return n, nil
}

// parseFrame decodes the frame at the start of b, which must hold at
// least a frame header, and returns the number of bytes it occupies.
func parseFrame(b []byte, major byte) (Frame, int, *FrameError) {
	id := FrameID(decodeLatin1(b[:4]))
	size := int(frameSize(b[4:8], major))
	if size > len(b)-frameHeaderSize {
		return Frame{}, 0, &FrameError{
			ID:  id,
			Err: errors.Wrapf(ErrTruncated, "frame size %d, %d bytes left", size, len(b)-frameHeaderSize),
		}
	}
	Logging.Printf("id3: frame %s size %d", id, size)

	body := b[frameHeaderSize : frameHeaderSize+size]
	content, err := DecodeContent(id, body)
	if err != nil {
		Logging.Printf("id3: frame %s kept as unknown: %v", id, err)
		content = &UnknownContent{Raw: copyBytes(body)}
	}
	f := Frame{
		FrameHeader: FrameHeader{ID: id, Flags: decodeFrameFlags(b[8], b[9], major)},
		Content:     content,
	}
	return f, frameHeaderSize + size, nil
}

// Frame status and format flag bits, by version.
const (
	v4TagAlter       = 0x40
	v4FileAlter      = 0x20
	v4ReadOnly       = 0x10
	v4Grouping       = 0x40
	v4Compression    = 0x08
	v4Encryption     = 0x04
	v4Unsynchronised = 0x02
	v4DataLength     = 0x01

	v3TagAlter    = 0x80
	v3FileAlter   = 0x40
	v3ReadOnly    = 0x20
	v3Compression = 0x80
	v3Encryption  = 0x40
	v3Grouping    = 0x20
)

func preservation(set bool) Preservation {
	if set {
		return Discarded
	}
	return Preserved
}

func decodeFrameFlags(status, format, major byte) FrameFlags {
	if major < 4 {
		return FrameFlags{
			TagAlterPreservation:  preservation(status&v3TagAlter != 0),
			FileAlterPreservation: preservation(status&v3FileAlter != 0),
			ReadOnly:              status&v3ReadOnly != 0,
			Compressed:            format&v3Compression != 0,
			Encrypted:             format&v3Encryption != 0,
			Grouping:              format&v3Grouping != 0,
		}
	}
	return FrameFlags{
		TagAlterPreservation:   preservation(status&v4TagAlter != 0),
		FileAlterPreservation:  preservation(status&v4FileAlter != 0),
		ReadOnly:               status&v4ReadOnly != 0,
		Grouping:               format&v4Grouping != 0,
		Compressed:             format&v4Compression != 0,
		Encrypted:              format&v4Encryption != 0,
		Unsynchronised:         format&v4Unsynchronised != 0,
		HasDataLengthIndicator: format&v4DataLength != 0,
	}
}

// encodeFrameFlags is the inverse of decodeFrameFlags. v2.3 has no bits
// for frame unsynchronisation or the data length indicator; they are
// dropped.
func encodeFrameFlags(f FrameFlags, major byte) (status, format byte) {
	bit := func(on bool, mask byte) byte {
		if on {
			return mask
		}
		return 0
	}
	if major < 4 {
		status = bit(f.TagAlterPreservation == Discarded, v3TagAlter) |
			bit(f.FileAlterPreservation == Discarded, v3FileAlter) |
			bit(f.ReadOnly, v3ReadOnly)
		format = bit(f.Compressed, v3Compression) |
			bit(f.Encrypted, v3Encryption) |
			bit(f.Grouping, v3Grouping)
		return status, format
	}
	status = bit(f.TagAlterPreservation == Discarded, v4TagAlter) |
		bit(f.FileAlterPreservation == Discarded, v4FileAlter) |
		bit(f.ReadOnly, v4ReadOnly)
	format = bit(f.Grouping, v4Grouping) |
		bit(f.Compressed, v4Compression) |
		bit(f.Encrypted, v4Encryption) |
		bit(f.Unsynchronised, v4Unsynchronised) |
		bit(f.HasDataLengthIndicator, v4DataLength)
	return status, format
}
