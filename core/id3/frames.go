package id3

import (
	"fmt"
	"strings"
)

// FrameID is a four character frame identifier such as "TIT2".
type FrameID string

var FrameNames = map[FrameID]string{
	"AENC": "Audio encryption",
	"APIC": "Attached picture",
	"ASPI": "Audio seek point index",
	"COMM": "Comments",
	"COMR": "Commercial frame",

	"ENCR": "Encryption method registration",
	"EQU2": "Equalisation (2)",
	"EQUA": "Equalisation",
	"ETCO": "Event timing codes",

	"GEOB": "General encapsulated object",
	"GRID": "Group identification registration",

	"IPLS": "Involved people list",

	"LINK": "Linked information",

	"MCDI": "Music CD identifier",
	"MLLT": "MPEG location lookup table",

	"OWNE": "Ownership frame",

	"PRIV": "Private frame",
	"PCNT": "Play counter",
	"POPM": "Popularimeter",
	"POSS": "Position synchronisation frame",

	"RBUF": "Recommended buffer size",
	"RVA2": "Relative volume adjustment (2)",
	"RVAD": "Relative volume adjustment",
	"RVRB": "Reverb",

	"SEEK": "Seek frame",
	"SIGN": "Signature frame",
	"SYLT": "Synchronised lyric/text",
	"SYTC": "Synchronised tempo codes",

	"TALB": "Album/Movie/Show title",
	"TBPM": "BPM (beats per minute)",
	"TCOM": "Composer",
	"TCON": "Content type",
	"TCOP": "Copyright message",
	"TDAT": "Date",
	"TDEN": "Encoding time",
	"TDLY": "Playlist delay",
	"TDOR": "Original release time",
	"TDRC": "Recording time",
	"TDRL": "Release time",
	"TDTG": "Tagging time",
	"TENC": "Encoded by",
	"TEXT": "Lyricist/Text writer",
	"TFLT": "File type",
	"TIME": "Time",
	"TIPL": "Involved people list",
	"TIT1": "Content group description",
	"TIT2": "Title/songname/content description",
	"TIT3": "Subtitle/Description refinement",
	"TKEY": "Initial key",
	"TLAN": "Language(s)",
	"TLEN": "Length",
	"TMCL": "Musician credits list",
	"TMED": "Media type",
	"TMOO": "Mood",
	"TOAL": "Original album/movie/show title",
	"TOFN": "Original filename",
	"TOLY": "Original lyricist(s)/text writer(s)",
	"TOPE": "Original artist(s)/performer(s)",
	"TORY": "Original release year",
	"TOWN": "File owner/licensee",
	"TPE1": "Lead performer(s)/Soloist(s)",
	"TPE2": "Band/orchestra/accompaniment",
	"TPE3": "Conductor/performer refinement",
	"TPE4": "Interpreted, remixed, or otherwise modified by",
	"TPOS": "Part of a set",
	"TPRO": "Produced notice",
	"TPUB": "Publisher",
	"TRCK": "Track number/Position in set",
	"TRDA": "Recording dates",
	"TRSN": "Internet radio station name",
	"TRSO": "Internet radio station owner",
	"TSIZ": "Size",
	"TSOA": "Album sort order",
	"TSOP": "Performer sort order",
	"TSOT": "Title sort order",
	"TSO2": "Album Artist sort order", // iTunes extension
	"TSOC": "Composer sort oder",      // iTunes extension
	"TSRC": "ISRC (international standard recording code)",
	"TSSE": "Software/Hardware and settings used for encoding",
	"TSST": "Set subtitle",
	"TYER": "Year",
	"TXXX": "User defined text information frame",

	"UFID": "Unique file identifier",
	"USER": "Terms of use",
	"USLT": "Unsynchronised lyric/text transcription",

	"WCOM": "Commercial information",
	"WCOP": "Copyright/Legal information",
	"WOAF": "Official audio file webpage",
	"WOAR": "Official artist/performer webpage",
	"WOAS": "Official audio source webpage",
	"WORS": "Official Internet radio station homepage",
	"WPAY": "Payment",
	"WPUB": "Publishers official webpage",
	"WXXX": "User defined URL link frame",
}

// Description returns the frame's name from the ID3v2 frame list, or
// the id itself for frames that aren't listed.
func (id FrameID) Description() string {
	if v, ok := FrameNames[id]; ok {
		return v
	}
	return string(id)
}

type PictureType byte

const (
	PictureOther PictureType = iota
	PictureFileIcon
	PictureOtherFileIcon
	PictureFrontCover
	PictureBackCover
	PictureLeafletPage
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureScreenCapture
	PictureBrightColouredFish
	PictureIllustration
	PictureBandLogotype
	PicturePublisherLogotype
)

var PictureTypes = []string{
	"Other",
	"32x32 pixels 'file icon' (PNG only)",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media (e.g. label side of CD)",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

func (p PictureType) String() string {
	if int(p) >= len(PictureTypes) {
		return fmt.Sprintf("PictureType(%d)", byte(p))
	}
	return PictureTypes[p]
}

// Preservation says what should happen to a frame when the tag or the
// file is altered and the frame is unknown to the program doing it.
type Preservation int

const (
	Preserved Preservation = iota // flag bit clear
	Discarded                     // flag bit set
)

func (p Preservation) String() string {
	if p == Discarded {
		return "discarded"
	}
	return "preserved"
}

type FrameFlags struct {
	TagAlterPreservation   Preservation
	FileAlterPreservation  Preservation
	ReadOnly               bool
	Grouping               bool
	Compressed             bool
	Encrypted              bool
	Unsynchronised         bool
	HasDataLengthIndicator bool
}

type FrameHeader struct {
	ID    FrameID
	Flags FrameFlags
}

type Frame struct {
	FrameHeader
	Content Content
}

// Value returns a one-line, printable summary of the frame's content.
func (f Frame) Value() string {
	switch c := f.Content.(type) {
	case *TextContent:
		return strings.Replace(c.Text, "\x00", "; ", -1)
	case *URLLinkContent:
		return c.URL
	case *CommentContent:
		return joinNonEmpty(c.Description, c.Text)
	case *UnsynchronisedLyricsContent:
		return joinNonEmpty(c.Descriptor, c.Lyrics)
	case *UserDefinedTextContent:
		return joinNonEmpty(c.Description, c.Text)
	case *AttachedPictureContent:
		return fmt.Sprintf("%s, %s, %d bytes", c.PictureType, c.MIMEType, len(c.Picture))
	case *PrivateContent:
		return fmt.Sprintf("%s, %d bytes", c.Identifier, len(c.Data))
	case *UnknownContent:
		return fmt.Sprintf("%d bytes", len(c.Raw))
	}
	return ""
}

func joinNonEmpty(label, s string) string {
	if label == "" {
		return s
	}
	return label + ": " + s
}

// ContentKind names the content variants a frame can hold.
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindText
	KindURLLink
	KindComment
	KindUnsynchronisedLyrics
	KindUserDefinedText
	KindAttachedPicture
	KindPrivate
)

var kindNames = [...]string{
	"unknown", "text", "url link", "comment", "unsynchronised lyrics",
	"user defined text", "attached picture", "private",
}

func (k ContentKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ContentKind(%d)", int(k))
	}
	return kindNames[k]
}

// Content is the decoded body of a frame. It is implemented only by the
// content types of this package.
type Content interface {
	Kind() ContentKind
	isContent()
}

type TextContent struct {
	Encoding Encoding
	Text     string
}

// URLLinkContent has no encoding byte; the URL is stored as is.
type URLLinkContent struct {
	URL string
}

type CommentContent struct {
	Encoding    Encoding
	Language    string
	Description string
	Text        string
}

type UnsynchronisedLyricsContent struct {
	Encoding   Encoding
	Language   string
	Descriptor string
	Lyrics     string
}

type UserDefinedTextContent struct {
	Encoding    Encoding
	Description string
	Text        string
}

type AttachedPictureContent struct {
	Encoding    Encoding
	MIMEType    string
	PictureType PictureType
	Description string
	Picture     []byte
}

type PrivateContent struct {
	Identifier string
	Data       []byte
}

type UnknownContent struct {
	Raw []byte
}

func (*TextContent) Kind() ContentKind                 { return KindText }
func (*URLLinkContent) Kind() ContentKind              { return KindURLLink }
func (*CommentContent) Kind() ContentKind              { return KindComment }
func (*UnsynchronisedLyricsContent) Kind() ContentKind { return KindUnsynchronisedLyrics }
func (*UserDefinedTextContent) Kind() ContentKind      { return KindUserDefinedText }
func (*AttachedPictureContent) Kind() ContentKind      { return KindAttachedPicture }
func (*PrivateContent) Kind() ContentKind              { return KindPrivate }
func (*UnknownContent) Kind() ContentKind              { return KindUnknown }

func (*TextContent) isContent()                 {}
func (*URLLinkContent) isContent()              {}
func (*CommentContent) isContent()              {}
func (*UnsynchronisedLyricsContent) isContent() {}
func (*UserDefinedTextContent) isContent()      {}
func (*AttachedPictureContent) isContent()      {}
func (*PrivateContent) isContent()              {}
func (*UnknownContent) isContent()              {}
