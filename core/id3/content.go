package id3

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

type contentCodec struct {
	kind   ContentKind
	match  func(id FrameID) bool
	decode func(b []byte) (Content, error)
}

func exactly(want FrameID) func(FrameID) bool {
	return func(id FrameID) bool { return id == want }
}

func prefixed(p string) func(FrameID) bool {
	return func(id FrameID) bool { return strings.HasPrefix(string(id), p) }
}

// codecs is evaluated top to bottom; the first match wins. TXXX and
// WXXX are listed before the T and W prefix rules they are carved out
// of. WXXX has no codec of its own and is kept as unknown content.
var codecs = []contentCodec{
	{KindUserDefinedText, exactly("TXXX"), decodeUserDefinedText},
	{KindText, prefixed("T"), decodeText},
	{KindUnknown, exactly("WXXX"), decodeUnknown},
	{KindURLLink, prefixed("W"), decodeURLLink},
	{KindAttachedPicture, exactly("APIC"), decodeAttachedPicture},
	{KindComment, exactly("COMM"), decodeComment},
	{KindUnsynchronisedLyrics, exactly("USLT"), decodeUnsynchronisedLyrics},
	{KindPrivate, exactly("PRIV"), decodePrivate},
}

var unknownCodec = contentCodec{kind: KindUnknown, decode: decodeUnknown}

func codecFor(id FrameID) contentCodec {
	for _, c := range codecs {
		if c.match(id) {
			return c
		}
	}
	return unknownCodec
}

// Classify returns the content kind a frame with the given id decodes
// to.
func Classify(id FrameID) ContentKind {
	return codecFor(id).kind
}

// DecodeContent decodes the body of a frame with the given id.
func DecodeContent(id FrameID, b []byte) (Content, error) {
	return codecFor(id).decode(b)
}

func readEncoding(b []byte) (Encoding, []byte, error) {
	if len(b) < 1 {
		return 0, nil, errors.Wrap(ErrTruncated, "missing encoding byte")
	}
	enc := Encoding(b[0])
	if !enc.Valid() {
		return 0, nil, errors.Wrapf(ErrInvalidEncoding, "encoding byte %d", b[0])
	}
	return enc, b[1:], nil
}

func copyBytes(b []byte) []byte {
	return append([]byte{}, b...)
}

func decodeText(b []byte) (Content, error) {
	enc, rest, err := readEncoding(b)
	if err != nil {
		return nil, err
	}
	s, err := enc.Decode(trimTerminators(rest, enc))
	if err != nil {
		return nil, err
	}
	return &TextContent{Encoding: enc, Text: s}, nil
}

func decodeURLLink(b []byte) (Content, error) {
	return &URLLinkContent{URL: string(bytes.TrimRight(b, "\x00"))}, nil
}

// decodeDescribed decodes the layout shared by COMM, USLT and TXXX
// after the encoding byte (and language): a terminated short field
// followed by the text.
func decodeDescribed(b []byte, enc Encoding) (desc, body string, err error) {
	short, rest := splitTerminated(b, enc)
	rest = skipExtraNUL(rest, enc)
	if desc, err = enc.Decode(short); err != nil {
		return "", "", errors.Wrap(err, "description")
	}
	if body, err = enc.Decode(trimTerminators(rest, enc)); err != nil {
		return "", "", errors.Wrap(err, "text")
	}
	return desc, body, nil
}

func readLanguage(b []byte) (string, []byte, error) {
	if len(b) < 3 {
		return "", nil, errors.Wrap(ErrTruncated, "missing language")
	}
	return decodeLatin1(b[:3]), b[3:], nil
}

func decodeComment(b []byte) (Content, error) {
	enc, rest, err := readEncoding(b)
	if err != nil {
		return nil, err
	}
	lang, rest, err := readLanguage(rest)
	if err != nil {
		return nil, err
	}
	desc, body, err := decodeDescribed(rest, enc)
	if err != nil {
		return nil, err
	}
	return &CommentContent{Encoding: enc, Language: lang, Description: desc, Text: body}, nil
}

func decodeUnsynchronisedLyrics(b []byte) (Content, error) {
	enc, rest, err := readEncoding(b)
	if err != nil {
		return nil, err
	}
	lang, rest, err := readLanguage(rest)
	if err != nil {
		return nil, err
	}
	desc, lyrics, err := decodeDescribed(rest, enc)
	if err != nil {
		return nil, err
	}
	return &UnsynchronisedLyricsContent{Encoding: enc, Language: lang, Descriptor: desc, Lyrics: lyrics}, nil
}

func decodeUserDefinedText(b []byte) (Content, error) {
	enc, rest, err := readEncoding(b)
	if err != nil {
		return nil, err
	}
	desc, body, err := decodeDescribed(rest, enc)
	if err != nil {
		return nil, err
	}
	return &UserDefinedTextContent{Encoding: enc, Description: desc, Text: body}, nil
}

func decodeAttachedPicture(b []byte) (Content, error) {
	enc, rest, err := readEncoding(b)
	if err != nil {
		return nil, err
	}
	mime, rest := splitTerminated(rest, ISO88591)
	if len(rest) < 1 {
		return nil, errors.Wrap(ErrTruncated, "missing picture type")
	}
	pt := PictureType(rest[0])
	short, picture := splitTerminated(rest[1:], enc)
	picture = skipPictureNUL(picture, enc)
	desc, err := enc.Decode(short)
	if err != nil {
		return nil, errors.Wrap(err, "description")
	}
	return &AttachedPictureContent{
		Encoding:    enc,
		MIMEType:    decodeLatin1(mime),
		PictureType: pt,
		Description: desc,
		Picture:     copyBytes(picture),
	}, nil
}

func decodePrivate(b []byte) (Content, error) {
	owner, data := splitTerminated(b, ISO88591)
	return &PrivateContent{Identifier: decodeLatin1(owner), Data: copyBytes(data)}, nil
}

func decodeUnknown(b []byte) (Content, error) {
	return &UnknownContent{Raw: copyBytes(b)}, nil
}

// EncodeContent returns the on-disk body of c, the bytes a frame header
// declares the size of.
func EncodeContent(c Content) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch c := c.(type) {
	case *TextContent:
		err = encodeFields(&buf, c.Encoding, encodingByte(c.Encoding), text(c.Text))
	case *URLLinkContent:
		buf.WriteString(c.URL)
	case *CommentContent:
		err = encodeFields(&buf, c.Encoding, encodingByte(c.Encoding), language(c.Language),
			terminated(c.Description), text(c.Text))
	case *UnsynchronisedLyricsContent:
		err = encodeFields(&buf, c.Encoding, encodingByte(c.Encoding), language(c.Language),
			terminated(c.Descriptor), text(c.Lyrics))
	case *UserDefinedTextContent:
		err = encodeFields(&buf, c.Encoding, encodingByte(c.Encoding),
			terminated(c.Description), text(c.Text))
	case *AttachedPictureContent:
		err = encodeFields(&buf, c.Encoding, encodingByte(c.Encoding), latin1Terminated(c.MIMEType),
			raw([]byte{byte(c.PictureType)}), terminated(c.Description), raw(c.Picture))
	case *PrivateContent:
		err = encodeFields(&buf, ISO88591, latin1Terminated(c.Identifier), raw(c.Data))
	case *UnknownContent:
		buf.Write(c.Raw)
	case nil:
		return nil, errors.New("id3: frame has no content")
	default:
		return nil, errors.Errorf("id3: unsupported content %T", c)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// A field writes one piece of a frame body for the frame's encoding.
type field func(buf *bytes.Buffer, enc Encoding) error

func encodeFields(buf *bytes.Buffer, enc Encoding, fields ...field) error {
	for _, f := range fields {
		if err := f(buf, enc); err != nil {
			return err
		}
	}
	return nil
}

func encodingByte(e Encoding) field {
	return func(buf *bytes.Buffer, _ Encoding) error {
		if !e.Valid() {
			return errors.Wrapf(ErrInvalidEncoding, "encoding byte %d", byte(e))
		}
		buf.WriteByte(byte(e))
		return nil
	}
}

func text(s string) field {
	return func(buf *bytes.Buffer, enc Encoding) error {
		b, err := enc.Encode(s)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func terminated(s string) field {
	return func(buf *bytes.Buffer, enc Encoding) error {
		if err := text(s)(buf, enc); err != nil {
			return err
		}
		buf.Write(enc.terminator())
		return nil
	}
}

func latin1Terminated(s string) field {
	return func(buf *bytes.Buffer, _ Encoding) error {
		return terminated(s)(buf, ISO88591)
	}
}

func language(s string) field {
	return func(buf *bytes.Buffer, _ Encoding) error {
		b, err := ISO88591.Encode(s)
		if err != nil || len(b) != 3 {
			return errors.Wrapf(ErrInvalidLanguage, "%q", s)
		}
		buf.Write(b)
		return nil
	}
}

func raw(b []byte) field {
	return func(buf *bytes.Buffer, _ Encoding) error {
		buf.Write(b)
		return nil
	}
}
