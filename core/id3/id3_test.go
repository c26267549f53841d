package id3

import (
	"bytes"
	"testing"
)

// rawFrame builds a frame header and body using the size rule of major.
func rawFrame(major byte, id string, status, format byte, body []byte) []byte {
	var hdr [frameHeaderSize]byte
	copy(hdr[:4], id)
	putFrameSize(hdr[4:8], uint32(len(body)), major)
	hdr[8], hdr[9] = status, format
	return append(hdr[:], body...)
}

// rawTag builds a tag header around body, which holds the frames and
// any padding.
func rawTag(major, flags byte, body ...[]byte) []byte {
	joined := bytes.Join(body, nil)
	out := []byte{'I', 'D', '3', major, 0, flags, 0, 0, 0, 0}
	putSynchsafeSize(out[6:10], uint32(len(joined)))
	return append(out, joined...)
}

func TestSynchsafeRoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 127, 128, 255, 16383, 16384, 1 << 21, maxSynchsafe} {
		var b [4]byte
		putSynchsafeSize(b[:], n)
		for i, c := range b {
			if c&0x80 != 0 {
				t.Errorf("%d: byte %d has high bit set: % x", n, i, b)
			}
		}
		if got := synchsafeSize(b[:]); got != n {
			t.Errorf("synchsafeSize(putSynchsafeSize(%d)) = %d", n, got)
		}
	}
}

func TestSynchsafeKnownVectors(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x7f}, 127},
		{[]byte{0x00, 0x00, 0x01, 0x00}, 128},
		{[]byte{0x00, 0x00, 0x02, 0x01}, 257},
		{[]byte{0x7f, 0x7f, 0x7f, 0x7f}, maxSynchsafe},
		// High bits are masked off.
		{[]byte{0x80, 0x00, 0x00, 0x81}, 1},
	}
	for _, tt := range tests {
		if got := synchsafeSize(tt.in); got != tt.want {
			t.Errorf("synchsafeSize(% x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFrameSizeByVersion(t *testing.T) {
	b := []byte{0x00, 0x00, 0x01, 0x00}
	if got := frameSize(b, 4); got != 128 {
		t.Errorf("v4 frameSize = %d, want 128", got)
	}
	if got := frameSize(b, 3); got != 256 {
		t.Errorf("v3 frameSize = %d, want 256", got)
	}

	var out [4]byte
	putFrameSize(out[:], 200, 3)
	if want := []byte{0, 0, 0, 200}; !bytes.Equal(out[:], want) {
		t.Errorf("v3 putFrameSize(200) = % x, want % x", out, want)
	}
	putFrameSize(out[:], 200, 4)
	if want := []byte{0, 0, 1, 72}; !bytes.Equal(out[:], want) {
		t.Errorf("v4 putFrameSize(200) = % x, want % x", out, want)
	}
}

func TestHasTag(t *testing.T) {
	tests := []struct {
		in   []byte
		want bool
	}{
		{nil, false},
		{[]byte("ID"), false},
		{[]byte("ID3"), true},
		{[]byte("ID3\x09garbage"), true},
		{[]byte("TAG"), false},
		{[]byte("id3\x04"), false},
	}
	for _, tt := range tests {
		if got := HasTag(tt.in); got != tt.want {
			t.Errorf("HasTag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTagEnd(t *testing.T) {
	audio := []byte{0xff, 0xfb, 0x90, 0x00}
	tag := rawTag(4, 0, make([]byte, 20))
	footer := rawTag(4, flagFooter, make([]byte, 20))
	footer = append(footer, []byte("3DI\x04\x00\x10\x00\x00\x00\x14")...)

	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"no tag", audio, 0},
		{"short", []byte("ID3\x04"), 0},
		{"tag only", tag, 30},
		{"tag and audio", append(append([]byte{}, tag...), audio...), 30},
		{"footer", append(append([]byte{}, footer...), audio...), 40},
		{"size past end", tag[:25], 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagEnd(tt.in); got != tt.want {
				t.Errorf("TagEnd = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	if got := (Version{Major: 4}).String(); got != "ID3v2.4.0" {
		t.Errorf("got %q", got)
	}
	if got := (Version{Major: 3, Revision: 1}).String(); got != "ID3v2.3.1" {
		t.Errorf("got %q", got)
	}
}

func TestRemoveFrames(t *testing.T) {
	tag := NewTag()
	tag.Frames = []Frame{
		{FrameHeader{ID: "APIC"}, &AttachedPictureContent{}},
		{FrameHeader{ID: "TIT2"}, &TextContent{Text: "a"}},
		{FrameHeader{ID: "APIC"}, &AttachedPictureContent{}},
	}
	if n := tag.RemoveFrames("APIC"); n != 2 {
		t.Errorf("removed %d frames, want 2", n)
	}
	if len(tag.Frames) != 1 || tag.FindFrame("TIT2") != 0 {
		t.Errorf("frames left: %+v", tag.Frames)
	}
	if i := tag.FindFrame("APIC"); i != -1 {
		t.Errorf("FindFrame(APIC) = %d after removal", i)
	}
}

func TestDescriptions(t *testing.T) {
	if got := FrameID("TIT2").Description(); got != "Title/songname/content description" {
		t.Errorf("TIT2: %q", got)
	}
	if got := FrameID("XYZW").Description(); got != "XYZW" {
		t.Errorf("XYZW: %q", got)
	}
	if got := PictureFrontCover.String(); got != "Cover (front)" {
		t.Errorf("front cover: %q", got)
	}
	if got := PicturePublisherLogotype.String(); got != "Publisher/Studio logotype" {
		t.Errorf("publisher logotype: %q", got)
	}
	if got := PictureType(21).String(); got != "PictureType(21)" {
		t.Errorf("21: %q", got)
	}
}
