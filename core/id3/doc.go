// Package id3 reads and writes ID3v2.3 and ID3v2.4 tags held in memory.
//
// # Parsing and dumping
//
// Parse takes the leading bytes of a file (usually the whole file) and
// returns the decoded tag, or nil when the buffer doesn't start with an
// ID3v2 tag. Dump does the reverse: it serializes a Tag and appends
// everything that followed the original tag, so the audio payload is
// carried over byte for byte.
//
//	data, _ := os.ReadFile("song.mp3")
//	tag, err := id3.Parse(data)
//	...
//	out, err := id3.Dump(tag, data)
//
// # Frames
//
// A tag is an ordered list of frames. Each frame has a header (a four
// character id and its flags) and a content value. The content type is
// picked from the id:
//
//   - T*** except TXXX: TextContent
//   - TXXX: UserDefinedTextContent
//   - W*** except WXXX: URLLinkContent
//   - COMM: CommentContent
//   - USLT: UnsynchronisedLyricsContent
//   - APIC: AttachedPictureContent
//   - PRIV: PrivateContent
//   - anything else, WXXX included: UnknownContent
//
// Unknown frames are kept as raw bytes and written back unchanged. A frame
// whose content cannot be decoded is kept the same way.
//
// Some writers put a stray NUL byte after a description. It is skipped
// for ISO-8859-1 and UTF-8 text, and for UTF-16 text when a byte order
// mark follows it.
//
// # Limitations
//
// Unsynchronisation is not undone, and compressed or encrypted frames are
// not expanded. Their flags are preserved, but their content is handed to
// the content decoders as is. Footers are skipped, not parsed.
package id3
