// Package tagview exposes the common fields of an ID3v2 tag, the title,
// artist, album, track number and pictures, on top of the frames of an
// id3.Tag.
package tagview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/pkg/errors"
)

var ErrUnknownPictureMIME = errors.New("tagview: unknown picture MIME type, set one explicitly")

// A View reads and edits a tag in place. It is not safe for concurrent
// use.
type View struct {
	tag *id3.Tag
}

// New returns a view of t. A nil t is replaced by an empty v2.4 tag.
func New(t *id3.Tag) *View {
	if t == nil {
		t = id3.NewTag()
	}
	return &View{tag: t}
}

// Tag returns the tag the view edits.
func (v *View) Tag() *id3.Tag { return v.tag }

// defaultEncoding is the encoding of frames created by the view.
func (v *View) defaultEncoding() id3.Encoding {
	if v.tag.Version.Major >= 4 {
		return id3.UTF8
	}
	return id3.UTF16
}

// encodingFor keeps enc if it can represent every string in ss and
// falls back to the view's default encoding otherwise.
func (v *View) encodingFor(enc id3.Encoding, ss ...string) id3.Encoding {
	for _, s := range ss {
		if _, err := enc.Encode(s); err != nil {
			return v.defaultEncoding()
		}
	}
	return enc
}

// Text returns the text of the first frame with the given id. It
// reports false if there is no such frame or it holds no text.
func (v *View) Text(id id3.FrameID) (string, bool) {
	i := v.tag.FindFrame(id)
	if i < 0 {
		return "", false
	}
	c, ok := v.tag.Frames[i].Content.(*id3.TextContent)
	if !ok {
		return "", false
	}
	return c.Text, true
}

// SetText sets the text of the frame with the given id, creating the
// frame if the tag has none.
func (v *View) SetText(id id3.FrameID, s string) {
	if i := v.tag.FindFrame(id); i >= 0 {
		f := &v.tag.Frames[i]
		if c, ok := f.Content.(*id3.TextContent); ok {
			c.Encoding = v.encodingFor(c.Encoding, s)
			c.Text = s
			return
		}
		f.Content = &id3.TextContent{Encoding: v.defaultEncoding(), Text: s}
		return
	}

	f := id3.Frame{
		FrameHeader: id3.FrameHeader{ID: id},
		Content:     &id3.TextContent{Encoding: v.defaultEncoding(), Text: s},
	}
	v.insert(v.insertIndex(id), f)
}

// ClearText removes every frame with the given id.
func (v *View) ClearText(id id3.FrameID) {
	v.tag.RemoveFrames(id)
}

func (v *View) insert(i int, f id3.Frame) {
	frames := v.tag.Frames
	frames = append(frames, id3.Frame{})
	copy(frames[i+1:], frames[i:])
	frames[i] = f
	v.tag.Frames = frames
}

// insertionOrder is the order new text frames are kept in relative to
// each other.
var insertionOrder = []id3.FrameID{"TIT2", "TPE1", "TALB", "TRCK", "TYER", "TCON"}

func rank(id id3.FrameID) int {
	for i, o := range insertionOrder {
		if o == id {
			return i
		}
	}
	return -1
}

// insertIndex returns where a new frame with the given id goes: before
// the first frame that comes after it in insertionOrder, else after the
// last frame that comes before it, else after the last text frame, else
// first.
func (v *View) insertIndex(id id3.FrameID) int {
	frames := v.tag.Frames
	if r := rank(id); r >= 0 {
		for i, f := range frames {
			if rank(f.ID) > r {
				return i
			}
		}
		for i := len(frames) - 1; i >= 0; i-- {
			if fr := rank(frames[i].ID); fr >= 0 && fr < r {
				return i + 1
			}
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Content != nil && frames[i].Content.Kind() == id3.KindText {
			return i + 1
		}
	}
	return 0
}

func (v *View) Title() (string, bool) { return v.Text("TIT2") }
func (v *View) SetTitle(s string)     { v.SetText("TIT2", s) }
func (v *View) ClearTitle()           { v.ClearText("TIT2") }

func (v *View) Artist() (string, bool) { return v.Text("TPE1") }
func (v *View) SetArtist(s string)     { v.SetText("TPE1", s) }
func (v *View) ClearArtist()           { v.ClearText("TPE1") }

func (v *View) Album() (string, bool) { return v.Text("TALB") }
func (v *View) SetAlbum(s string)     { v.SetText("TALB", s) }
func (v *View) ClearAlbum()           { v.ClearText("TALB") }

// TrackNumber is the position of a track, and optionally the number of
// tracks, on its release. A zero Total means the total is unknown.
type TrackNumber struct {
	Current int
	Total   int
}

func (n TrackNumber) String() string {
	if n.Total > 0 {
		return fmt.Sprintf("%d/%d", n.Current, n.Total)
	}
	return strconv.Itoa(n.Current)
}

// ParseTrackNumber parses "N" or "N/M".
func ParseTrackNumber(s string) (TrackNumber, error) {
	cur, total := s, ""
	if i := strings.IndexByte(s, '/'); i >= 0 {
		cur, total = s[:i], s[i+1:]
	}
	var n TrackNumber
	var err error
	if n.Current, err = strconv.Atoi(strings.TrimSpace(cur)); err != nil || n.Current < 0 {
		return TrackNumber{}, errors.Errorf("tagview: invalid track number %q", s)
	}
	if total != "" {
		if n.Total, err = strconv.Atoi(strings.TrimSpace(total)); err != nil || n.Total < 0 {
			return TrackNumber{}, errors.Errorf("tagview: invalid track total %q", s)
		}
	}
	return n, nil
}

// Track returns the track number from TRCK. It reports false if the
// frame is missing or doesn't hold a number.
func (v *View) Track() (TrackNumber, bool) {
	s, ok := v.Text("TRCK")
	if !ok {
		return TrackNumber{}, false
	}
	n, err := ParseTrackNumber(s)
	if err != nil {
		return TrackNumber{}, false
	}
	return n, true
}

// SetTrack writes n to TRCK. A zero Current removes the frame.
func (v *View) SetTrack(n TrackNumber) {
	if n.Current <= 0 {
		v.ClearTrack()
		return
	}
	v.SetText("TRCK", n.String())
}

func (v *View) ClearTrack() { v.ClearText("TRCK") }

// Picture is an attached picture.
type Picture struct {
	MIMEType    string
	Type        id3.PictureType
	Description string
	Data        []byte
}

// PictureOptions describe a picture to attach. If MIMEType is empty it
// is detected from Data.
type PictureOptions struct {
	Type        id3.PictureType
	Data        []byte
	MIMEType    string
	Description string
}

func (v *View) findPicture(pt id3.PictureType) *id3.AttachedPictureContent {
	for _, f := range v.tag.Frames {
		if c, ok := f.Content.(*id3.AttachedPictureContent); ok && c.PictureType == pt {
			return c
		}
	}
	return nil
}

// FindPicture returns the first picture of the given type.
func (v *View) FindPicture(pt id3.PictureType) (Picture, bool) {
	c := v.findPicture(pt)
	if c == nil {
		return Picture{}, false
	}
	return Picture{MIMEType: c.MIMEType, Type: c.PictureType, Description: c.Description, Data: c.Picture}, true
}

// Pictures returns every attached picture in tag order.
func (v *View) Pictures() []Picture {
	var ps []Picture
	for _, f := range v.tag.Frames {
		if c, ok := f.Content.(*id3.AttachedPictureContent); ok {
			ps = append(ps, Picture{MIMEType: c.MIMEType, Type: c.PictureType, Description: c.Description, Data: c.Picture})
		}
	}
	return ps
}

// AttachPicture replaces the first picture of opts.Type, or appends a
// new picture frame if there is none. It fails with
// ErrUnknownPictureMIME when no MIME type is given and none can be
// detected.
func (v *View) AttachPicture(opts PictureOptions) error {
	mime := opts.MIMEType
	if mime == "" {
		mime = core.PictureMIME(opts.Data)
		if mime == "" {
			return ErrUnknownPictureMIME
		}
	}

	if c := v.findPicture(opts.Type); c != nil {
		c.Encoding = v.encodingFor(c.Encoding, opts.Description)
		c.MIMEType = mime
		c.Description = opts.Description
		c.Picture = opts.Data
		return nil
	}
	v.tag.Frames = append(v.tag.Frames, id3.Frame{
		FrameHeader: id3.FrameHeader{ID: "APIC"},
		Content: &id3.AttachedPictureContent{
			Encoding:    v.defaultEncoding(),
			MIMEType:    mime,
			PictureType: opts.Type,
			Description: opts.Description,
			Picture:     opts.Data,
		},
	})
	return nil
}

// RemovePicture removes every picture of the given type.
func (v *View) RemovePicture(pt id3.PictureType) {
	v.removePictures(func(c *id3.AttachedPictureContent) bool { return c.PictureType == pt })
}

// RemoveAllPictures removes every attached picture.
func (v *View) RemoveAllPictures() {
	v.removePictures(func(*id3.AttachedPictureContent) bool { return true })
}

func (v *View) removePictures(match func(*id3.AttachedPictureContent) bool) {
	kept := v.tag.Frames[:0]
	for _, f := range v.tag.Frames {
		if c, ok := f.Content.(*id3.AttachedPictureContent); ok && match(c) {
			continue
		}
		kept = append(kept, f)
	}
	v.tag.Frames = kept
}
