package picture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"sort"
	"testing"
)

// minimalEXIF builds an "Exif\0\0" block holding ASCII fields in IFD0.
func minimalEXIF(fields map[uint16]string) []byte {
	var tags []uint16
	for tag := range fields {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	var buf bytes.Buffer
	buf.WriteString("Exif\x00\x00")
	buf.WriteString("II")
	buf.Write([]byte{0x2A, 0x00})
	buf.Write([]byte{0x08, 0x00, 0x00, 0x00})

	le16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	le32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	valOffset := 8 + 2 + len(tags)*12 + 4
	var values bytes.Buffer
	le16(uint16(len(tags)))
	for _, tag := range tags {
		val := fields[tag] + "\x00"
		le16(tag)
		le16(2) // ASCII
		le32(uint32(len(val)))
		if len(val) <= 4 {
			padded := make([]byte, 4)
			copy(padded, val)
			buf.Write(padded)
		} else {
			le32(uint32(valOffset + values.Len()))
			values.WriteString(val)
		}
	}
	le32(0)
	buf.Write(values.Bytes())
	return buf.Bytes()
}

func jpegWithEXIF(block []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&buf, binary.BigEndian, uint16(len(block)+2))
	buf.Write(block)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func TestEXIFFields(t *testing.T) {
	data := jpegWithEXIF(minimalEXIF(map[uint16]string{
		0x010F: "Canon",
		0x0110: "EOS 5D",
		0x0131: "GIMP",
	}))
	fields, err := EXIFFields(data)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"Make": "Canon", "Model": "EOS 5D", "Software": "GIMP"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields: %+v", len(fields), fields)
	}
	for i, f := range fields {
		if want[f.Key] != f.Value {
			t.Errorf("%s = %q, want %q", f.Key, f.Value, want[f.Key])
		}
		if f.Category != "APIC EXIF" {
			t.Errorf("%s: category %q", f.Key, f.Category)
		}
		if i > 0 && fields[i-1].Key > f.Key {
			t.Errorf("fields not sorted: %s before %s", fields[i-1].Key, f.Key)
		}
	}
}

func TestEXIFFieldsMissing(t *testing.T) {
	if _, err := EXIFFields([]byte{0xFF, 0xD8, 0xFF, 0xD9}); err == nil {
		t.Error("no error for a JPEG without EXIF")
	}
	if _, err := EXIFFields([]byte("\x89PNG\r\n\x1a\n")); err == nil {
		t.Error("no error for a PNG")
	}
}

func TestDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	if got := Dimensions(buf.Bytes()); got != "3x2" {
		t.Errorf("Dimensions = %q, want 3x2", got)
	}
	if got := Dimensions([]byte{1, 2, 3}); got != "" {
		t.Errorf("Dimensions of garbage = %q", got)
	}
}
