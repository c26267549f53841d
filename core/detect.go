package core

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// FormatID enumerates every recognised format.
type FormatID string

const (
	FmtJPEG FormatID = "jpeg"
	FmtPNG  FormatID = "png"
	FmtGIF  FormatID = "gif"
	FmtWebP FormatID = "webp"
	FmtBMP  FormatID = "bmp"

	FmtMP3  FormatID = "mp3"
	FmtWAV  FormatID = "wav"
	FmtAIFF FormatID = "aiff"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".jpg":  FmtJPEG,
	".jpeg": FmtJPEG,
	".png":  FmtPNG,
	".gif":  FmtGIF,
	".webp": FmtWebP,
	".bmp":  FmtBMP,

	".mp3":  FmtMP3,
	".wav":  FmtWAV,
	".wave": FmtWAV,
	".aif":  FmtAIFF,
	".aiff": FmtAIFF,
	".aifc": FmtAIFF,
}

// mimeTypes holds the MIME type written into attached picture frames.
var mimeTypes = map[FormatID]string{
	FmtJPEG: "image/jpeg",
	FmtPNG:  "image/png",
	FmtGIF:  "image/gif",
	FmtWebP: "image/webp",
	FmtBMP:  "image/bmp",
}

// DetectFormat returns the FormatID for the given file, first by reading
// magic bytes and falling back to extension.
func DetectFormat(path string) (FormatID, error) {
	f, err := os.Open(path)
	if err != nil {
		return FmtUnknown, err
	}
	defer f.Close()

	buf := make([]byte, 16)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return FmtUnknown, err
	}
	buf = buf[:n]

	if id := detectMagic(buf); id != FmtUnknown {
		return id, nil
	}

	// Fallback to extension
	dot := strings.LastIndex(path, ".")
	if dot >= 0 {
		ext := strings.ToLower(path[dot:])
		if id, ok := extMap[ext]; ok {
			return id, nil
		}
	}
	return FmtUnknown, nil
}

// detectImage recognises the picture formats an APIC frame may carry.
func detectImage(b []byte) FormatID {
	switch {
	// JPEG: FF D8 FF
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FmtJPEG
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	case bytes.HasPrefix(b, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return FmtPNG
	// GIF: GIF87a or GIF89a
	case bytes.HasPrefix(b, []byte("GIF")):
		return FmtGIF
	// WebP: RIFF????WEBP
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return FmtWebP
	// BMP: 42 4D
	case bytes.HasPrefix(b, []byte("BM")):
		return FmtBMP
	}
	return FmtUnknown
}

func detectMagic(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	if id := detectImage(b); id != FmtUnknown {
		return id
	}
	switch {
	// MP3: ID3 tag or FF FB / FF F3 / FF F2 sync
	case bytes.HasPrefix(b, []byte("ID3")):
		return FmtMP3
	case b[0] == 0xFF && (b[1]&0xE0 == 0xE0):
		return FmtMP3
	// WAV: RIFF????WAVE
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return FmtWAV
	// AIFF: FORM????AIFF or AIFC
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("FORM")) &&
		(bytes.Equal(b[8:12], []byte("AIFF")) || bytes.Equal(b[8:12], []byte("AIFC"))):
		return FmtAIFF
	}
	return FmtUnknown
}

// PictureMIME returns the MIME type of an image from its leading bytes:
// JPEG, PNG, GIF, WebP or BMP. It returns "" for anything else.
func PictureMIME(b []byte) string {
	return mimeTypes[detectImage(b)]
}
