package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/pkg/errors"
)

// A Container locates the ID3v2 tag inside a file. MP3 files start with
// the tag. WAV and AIFF files carry it in an "id3 " or "ID3 " chunk.
type Container struct {
	Format core.FormatID
	// Fields holds what the container itself says about the audio, such
	// as the sample rate of a WAV file.
	Fields []core.MetaField

	data  []byte
	order binary.ByteOrder

	// chunk is the offset of the ID3 chunk header, dataEnd the offset
	// after its data and chunkEnd after its pad byte. chunk is -1 without
	// a chunk.
	chunk, dataEnd, chunkEnd int
	chunkID                  string
}

// ParseContainer scans data, the contents of a file of the given format.
func ParseContainer(format core.FormatID, data []byte) (*Container, error) {
	c := &Container{Format: format, data: data, chunk: -1}
	switch format {
	case core.FmtMP3:
		return c, nil
	case core.FmtWAV:
		c.order = binary.LittleEndian
		c.chunkID = "id3 "
		return c, c.scan("RIFF", []string{"WAVE"})
	case core.FmtAIFF:
		c.order = binary.BigEndian
		c.chunkID = "ID3 "
		return c, c.scan("FORM", []string{"AIFF", "AIFC"})
	}
	return nil, errors.Errorf("no ID3 support for %s files", format)
}

func (c *Container) scan(magic string, kinds []string) error {
	data := c.data
	if len(data) < 12 || string(data[0:4]) != magic {
		return errors.Errorf("%s: not a %s file", c.Format, magic)
	}
	ok := false
	for _, k := range kinds {
		ok = ok || string(data[8:12]) == k
	}
	if !ok {
		return errors.Errorf("%s: unexpected form type %q", c.Format, data[8:12])
	}

	cat := formatInfo[c.Format].Name + " Header"
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(c.order.Uint32(data[offset+4 : offset+8]))
		start := offset
		offset += 8
		if offset+chunkSize > len(data) {
			id3.Logging.Printf("audio: %s chunk %q runs past end of file", c.Format, chunkID)
			if isID3Chunk(chunkID) && c.chunk < 0 {
				// Keep the truncated chunk so Replace overwrites it.
				c.chunk, c.chunkID = start, chunkID
				c.dataEnd, c.chunkEnd = len(data), len(data)
			}
			break
		}
		body := data[offset : offset+chunkSize]

		switch {
		case chunkID == "fmt " && chunkSize >= 16:
			c.Fields = append(c.Fields,
				core.MetaField{Key: "Channels", Value: fmt.Sprintf("%d", binary.LittleEndian.Uint16(body[2:4])), Category: cat},
				core.MetaField{Key: "SampleRate", Value: fmt.Sprintf("%d Hz", binary.LittleEndian.Uint32(body[4:8])), Category: cat},
				core.MetaField{Key: "BitsPerSample", Value: fmt.Sprintf("%d", binary.LittleEndian.Uint16(body[14:16])), Category: cat},
			)
		case chunkID == "COMM" && chunkSize >= 18:
			c.Fields = append(c.Fields,
				core.MetaField{Key: "Channels", Value: fmt.Sprintf("%d", binary.BigEndian.Uint16(body[0:2])), Category: cat},
				core.MetaField{Key: "SampleFrames", Value: fmt.Sprintf("%d", binary.BigEndian.Uint32(body[2:6])), Category: cat},
				core.MetaField{Key: "BitsPerSample", Value: fmt.Sprintf("%d", binary.BigEndian.Uint16(body[6:8])), Category: cat},
			)
		case isID3Chunk(chunkID) && c.chunk < 0:
			c.chunk = start
			c.chunkID = chunkID
		}

		offset += chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
		if c.chunk == start {
			c.dataEnd = start + 8 + chunkSize
			c.chunkEnd = offset
			if c.chunkEnd > len(data) {
				c.chunkEnd = len(data)
			}
		}
	}
	return nil
}

func isID3Chunk(id string) bool { return id == "id3 " || id == "ID3 " }

// HasChunk reports whether a WAV or AIFF file has an ID3 chunk.
func (c *Container) HasChunk() bool { return c.chunk >= 0 }

// Payload returns the bytes id3.Parse and id3.Dump work on: the whole
// file for MP3, the ID3 chunk data otherwise. It is nil when a WAV or
// AIFF file has no ID3 chunk.
func (c *Container) Payload() []byte {
	if c.Format == core.FmtMP3 {
		return c.data
	}
	if c.chunk < 0 {
		return nil
	}
	return c.data[c.chunk+8 : c.dataEnd]
}

// Replace returns the file with its payload replaced. A WAV or AIFF file
// without an ID3 chunk gets one appended.
func (c *Container) Replace(payload []byte) []byte {
	if c.Format == core.FmtMP3 {
		return payload
	}
	var chunk bytes.Buffer
	chunk.WriteString(c.chunkID)
	size := make([]byte, 4)
	c.order.PutUint32(size, uint32(len(payload)))
	chunk.Write(size)
	chunk.Write(payload)
	if len(payload)%2 != 0 {
		chunk.WriteByte(0)
	}

	if c.chunk < 0 {
		return c.withSize(c.data, chunk.Bytes(), nil)
	}
	return c.withSize(c.data[:c.chunk], chunk.Bytes(), c.data[c.chunkEnd:])
}

// Remove returns the file without its ID3 tag.
func (c *Container) Remove() []byte {
	if c.Format == core.FmtMP3 {
		return c.data[id3.TagEnd(c.data):]
	}
	if c.chunk < 0 {
		return c.data
	}
	return c.withSize(c.data[:c.chunk], c.data[c.chunkEnd:])
}

// withSize joins parts and rewrites the RIFF or FORM size.
func (c *Container) withSize(parts ...[]byte) []byte {
	out := bytes.Join(parts, nil)
	c.order.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}
