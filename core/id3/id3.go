package id3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
)

// Enables logging if set to true.
var Logging LogFlag

type LogFlag bool

func (l LogFlag) Println(args ...interface{}) {
	if l {
		log.Println(args...)
	}
}

func (l LogFlag) Printf(format string, args ...interface{}) {
	if l {
		log.Printf(format, args...)
	}
}

const (
	tagHeaderSize   = 10
	frameHeaderSize = 10
	footerSize      = 10

	// maxSynchsafe is the largest value four synchsafe bytes can hold.
	maxSynchsafe = 1<<28 - 1
)

var magic = []byte("ID3")

// Header flag bits.
const (
	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagExperimental      = 0x20
	flagFooter            = 0x10
)

// Version is the ID3v2 version of a tag. Major is 3 or 4 for the tags
// this package reads.
type Version struct {
	Major    byte
	Revision byte
}

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d.%d", v.Major, v.Revision)
}

// TagFlags are the tag header flags that survive a parse/dump cycle.
// The extended header and footer flags are consumed while parsing and
// never written.
type TagFlags struct {
	Unsynchronisation bool
	Experimental      bool
}

type Tag struct {
	Version Version
	Flags   TagFlags
	Frames  []Frame
}

// NewTag returns an empty v2.4.0 tag.
func NewTag() *Tag {
	return &Tag{Version: Version{Major: 4}}
}

// FindFrame returns the index of the first frame with the given id, or
// -1.
func (t *Tag) FindFrame(id FrameID) int {
	for i, f := range t.Frames {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// RemoveFrames removes every frame with the given id and reports how
// many were removed.
func (t *Tag) RemoveFrames(id FrameID) int {
	kept := t.Frames[:0]
	for _, f := range t.Frames {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	n := len(t.Frames) - len(kept)
	t.Frames = kept
	return n
}

// HasTag reports whether b starts with the ID3v2 magic. The version is
// not checked.
func HasTag(b []byte) bool {
	return bytes.HasPrefix(b, magic)
}

// TagEnd returns the offset of the first byte after the tag at the
// start of b: the header, the declared size and the footer if one is
// flagged. It returns 0 if b has no tag and never more than len(b).
func TagEnd(b []byte) int {
	if !HasTag(b) || len(b) < tagHeaderSize {
		return 0
	}
	end := tagHeaderSize + int(synchsafeSize(b[6:10]))
	if b[5]&flagFooter != 0 {
		end += footerSize
	}
	if end > len(b) {
		return len(b)
	}
	return end
}

// synchsafeSize decodes four synchsafe bytes. The high bit of each byte
// is masked off rather than rejected.
func synchsafeSize(b []byte) uint32 {
	if (b[0]|b[1]|b[2]|b[3])&0x80 != 0 {
		Logging.Printf("id3: high bit set in synchsafe size % x, masking", b[:4])
	}
	return uint32(b[0]&0x7f)<<21 |
		uint32(b[1]&0x7f)<<14 |
		uint32(b[2]&0x7f)<<7 |
		uint32(b[3]&0x7f)
}

func plainSize(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func putSynchsafeSize(b []byte, n uint32) {
	b[0] = byte(n>>21) & 0x7f
	b[1] = byte(n>>14) & 0x7f
	b[2] = byte(n>>7) & 0x7f
	b[3] = byte(n) & 0x7f
}

func putPlainSize(b []byte, n uint32) {
	binary.BigEndian.PutUint32(b, n)
}

// frameSize decodes a frame (or extended header) size: synchsafe from
// v2.4 on, plain big-endian before.
func frameSize(b []byte, major byte) uint32 {
	if major >= 4 {
		return synchsafeSize(b)
	}
	return plainSize(b)
}

func putFrameSize(b []byte, n uint32, major byte) {
	if major >= 4 {
		putSynchsafeSize(b, n)
		return
	}
	putPlainSize(b, n)
}

func isPadding(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
