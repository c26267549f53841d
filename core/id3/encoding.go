package id3

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding byte that starts text-bearing frames.
type Encoding byte

const (
	ISO88591 Encoding = iota
	UTF16             // with byte order mark
	UTF16BE
	UTF8
)

var encodingNames = [...]string{"ISO-8859-1", "UTF-16", "UTF-16BE", "UTF-8"}

func (e Encoding) String() string {
	if !e.Valid() {
		return "invalid"
	}
	return encodingNames[e]
}

func (e Encoding) Valid() bool {
	return e <= UTF8
}

var (
	nul  = []byte{0}
	nul2 = []byte{0, 0}
	bom  = []byte{0xFF, 0xFE}
)

// terminator returns the string terminator for e: one NUL byte for the
// single-byte encodings, two for the UTF-16 ones.
func (e Encoding) terminator() []byte {
	if e == UTF16 || e == UTF16BE {
		return nul2
	}
	return nul
}

func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case ISO88591:
		return charmap.ISO8859_1.NewDecoder()
	case UTF16:
		// A missing BOM is read as little endian, the byte order we write.
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}
	return nil
}

// Decode converts text stored in e to a Go string. The input must not
// include a terminator.
func (e Encoding) Decode(b []byte) (string, error) {
	if !e.Valid() {
		return "", errors.Wrapf(ErrInvalidEncoding, "encoding byte %d", byte(e))
	}
	if e == UTF8 {
		return string(b), nil
	}
	if e != ISO88591 && len(b)%2 != 0 {
		// An odd trailing byte can't be half of a code unit we know.
		b = b[:len(b)-1]
	}
	out, err := e.decoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", e)
	}
	return string(out), nil
}

// Encode converts s to e. UTF-16 output starts with an FF FE byte order
// mark followed by little-endian code units; UTF-16BE output has no mark.
func (e Encoding) Encode(s string) ([]byte, error) {
	switch e {
	case UTF8:
		return []byte(s), nil
	case ISO88591:
		out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrapf(ErrUnencodable, "%q as %s", s, e)
		}
		return out, nil
	case UTF16:
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", e)
		}
		return append(append([]byte{}, bom...), out...), nil
	case UTF16BE:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", e)
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrInvalidEncoding, "encoding byte %d", byte(e))
}

// indexTerminator returns the offset of the first terminator for e in
// b, or -1. UTF-16 terminators only count at even offsets.
func indexTerminator(b []byte, e Encoding) int {
	if e == UTF16 || e == UTF16BE {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				return i
			}
		}
		return -1
	}
	return bytes.IndexByte(b, 0)
}

// splitTerminated splits b at the first terminator for e. Without a
// terminator, the end of b ends the field and rest is empty.
func splitTerminated(b []byte, e Encoding) (field, rest []byte) {
	i := indexTerminator(b, e)
	if i < 0 {
		return b, nil
	}
	return b[:i], b[i+len(e.terminator()):]
}

// skipExtraNUL drops the stray NUL byte some writers leave after a
// description. UTF-16 text only loses it when a byte order mark follows,
// and UTF-16BE text is never touched: a NUL there is the high byte of
// the first character.
func skipExtraNUL(b []byte, e Encoding) []byte {
	if len(b) == 0 || b[0] != 0 {
		return b
	}
	switch e {
	case ISO88591, UTF8:
		return b[1:]
	case UTF16:
		if len(b) >= 3 && isBOM(b[1:3]) {
			return b[1:]
		}
	}
	return b
}

// skipPictureNUL drops the stray NUL byte that follows a UTF-16 picture
// description. Picture data never starts with a NUL and a non-NUL byte.
func skipPictureNUL(b []byte, e Encoding) []byte {
	if e == UTF16 && len(b) >= 2 && b[0] == 0 && b[1] != 0 {
		return b[1:]
	}
	return b
}

func isBOM(b []byte) bool {
	return bytes.Equal(b, []byte{0xFF, 0xFE}) || bytes.Equal(b, []byte{0xFE, 0xFF})
}

// trimTerminators removes trailing terminators from the final field of
// a frame.
func trimTerminators(b []byte, e Encoding) []byte {
	if e == UTF16 || e == UTF16BE {
		if len(b)%2 != 0 && b[len(b)-1] == 0 {
			b = b[:len(b)-1]
		}
		for len(b) >= 2 && len(b)%2 == 0 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
			b = b[:len(b)-2]
		}
		return b
	}
	return bytes.TrimRight(b, "\x00")
}

// decodeLatin1 decodes fixed single-byte fields: frame ids, languages,
// MIME types and owner identifiers.
func decodeLatin1(b []byte) string {
	s, _ := ISO88591.Decode(b)
	return s
}
