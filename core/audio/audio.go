// Package audio reads and writes the ID3v2 tags of MP3 files and of the
// ID3 chunks embedded in WAV and AIFF files.
package audio

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/ankit-chaubey/id3-surgery/core/picture"
	"github.com/ankit-chaubey/id3-surgery/core/tagview"
	"github.com/pkg/errors"
)

// Handler implements core.Handler for audio formats.
type Handler struct {
	format core.FormatID

	// Padding is the number of zero bytes reserved after the frames when
	// a tag is written.
	Padding int
	// Out receives dry-run reports. It defaults to stdout.
	Out io.Writer
}

// New returns an audio Handler for the given format.
func New(id core.FormatID) *Handler { return &Handler{format: id, Out: os.Stdout} }

// Supported reports whether New can handle the format.
func Supported(id core.FormatID) bool {
	_, ok := formatInfo[id]
	return ok
}

func (h *Handler) Info() core.FormatInfo {
	return formatInfo[h.format]
}

var editableFields = []string{
	"Title", "Artist", "Album", "Year", "Genre",
	"Comment", "TrackNumber", "AlbumArtist", "Composer",
	"Lyrics", "Copyright",
}

var formatInfo = map[core.FormatID]core.FormatInfo{
	core.FmtMP3: {
		Name:           "MP3",
		Extensions:     []string{".mp3"},
		MediaType:      "audio",
		MIMETypes:      []string{"audio/mpeg"},
		CanView:        true,
		CanEdit:        true,
		CanStrip:       true,
		Notes:          "ID3v2.3 and ID3v2.4 tags. ID3v1 trailers are left alone.",
		EditableFields: editableFields,
	},
	core.FmtWAV: {
		Name:           "WAV",
		Extensions:     []string{".wav"},
		MediaType:      "audio",
		MIMETypes:      []string{"audio/wav"},
		CanView:        true,
		CanEdit:        true,
		CanStrip:       true,
		Notes:          "ID3v2 tag in an \"id3 \" RIFF chunk.",
		EditableFields: editableFields,
	},
	core.FmtAIFF: {
		Name:           "AIFF",
		Extensions:     []string{".aif", ".aiff"},
		MediaType:      "audio",
		MIMETypes:      []string{"audio/aiff"},
		CanView:        true,
		CanEdit:        true,
		CanStrip:       true,
		Notes:          "ID3v2 tag in an \"ID3 \" FORM chunk.",
		EditableFields: editableFields,
	},
}

// frameIDs maps friendly field names to frame IDs.
var frameIDs = map[string]id3.FrameID{
	"title":       "TIT2",
	"artist":      "TPE1",
	"album":       "TALB",
	"year":        "TDRC",
	"genre":       "TCON",
	"comment":     "COMM",
	"tracknumber": "TRCK",
	"track":       "TRCK",
	"albumartist": "TPE2",
	"composer":    "TCOM",
	"lyrics":      "USLT",
	"copyright":   "TCOP",
}

// fieldNames maps frame IDs back to the names View shows.
var fieldNames = map[id3.FrameID]string{
	"TIT2": "Title",
	"TPE1": "Artist",
	"TALB": "Album",
	"TDRC": "Year",
	"TYER": "Year",
	"TCON": "Genre",
	"COMM": "Comment",
	"TRCK": "TrackNumber",
	"TPE2": "AlbumArtist",
	"TCOM": "Composer",
	"USLT": "Lyrics",
	"TCOP": "Copyright",
}

// frameID resolves a friendly field name or a raw frame ID. Year maps to
// TYER in v2.3 tags, which have no TDRC.
func frameID(name string, major byte) (id3.FrameID, bool) {
	if id, ok := frameIDs[strings.ToLower(name)]; ok {
		if id == "TDRC" && major < 4 {
			id = "TYER"
		}
		return id, true
	}
	if len(name) == 4 && strings.ToUpper(name) == name {
		return id3.FrameID(name), true
	}
	return "", false
}

// file is an audio file loaded for editing.
type file struct {
	c   *Container
	tag *id3.Tag // nil if the file has no tag
}

func (h *Handler) load(path string) (*file, error) {
	if !Supported(h.format) {
		return nil, errors.Errorf("%s files have no ID3 support", h.format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseContainer(h.format, data)
	if err != nil {
		return nil, err
	}
	t, err := id3.Parse(c.Payload())
	if err != nil {
		return nil, errors.Wrapf(err, "could not read tags of %s", path)
	}
	return &file{c: c, tag: t}, nil
}

// save writes t back into the file at outPath.
func (h *Handler) save(f *file, t *id3.Tag, outPath string) error {
	e := &id3.Encoder{Padding: h.Padding}
	payload, err := e.Dump(t, f.c.Payload())
	if err != nil {
		return errors.Wrap(err, "could not write tag")
	}
	return os.WriteFile(outPath, f.c.Replace(payload), 0644)
}

// printer reports dry runs to h.Out.
func (h *Handler) printer() *core.Printer {
	return &core.Printer{Writer: h.Out}
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) View(path string) (*core.Metadata, error) {
	m := &core.Metadata{FilePath: path, Format: formatInfo[h.format].Name}
	f, err := h.load(path)
	if err != nil {
		return m, err
	}
	m.Fields = append(m.Fields, f.c.Fields...)
	if f.tag == nil {
		return m, nil
	}

	t := f.tag
	cat := t.Version.String()
	add := func(key, val, raw string, editable bool) {
		m.Fields = append(m.Fields, core.MetaField{
			Key:      key,
			Value:    val,
			Category: cat,
			Editable: editable,
			Raw:      raw,
		})
	}
	add("Frames", fmt.Sprintf("%d", len(t.Frames)), "", false)
	if t.Flags.Unsynchronisation {
		add("Unsynchronisation", "yes", "", false)
	}
	if t.Flags.Experimental {
		add("Experimental", "yes", "", false)
	}

	var pictures []*id3.AttachedPictureContent
	for _, fr := range t.Frames {
		if p, ok := fr.Content.(*id3.AttachedPictureContent); ok {
			pictures = append(pictures, p)
			continue
		}
		key, editable := fieldNames[fr.ID]
		if !editable {
			key = string(fr.ID)
		}
		if c, ok := fr.Content.(*id3.UserDefinedTextContent); ok {
			key = "TXXX:" + c.Description
			add(key, c.Text, rawFrame(fr), false)
			continue
		}
		add(key, fr.Value(), rawFrame(fr), editable || fr.Content.Kind() == id3.KindText)
	}

	for _, p := range pictures {
		val := fmt.Sprintf("%s, %d bytes", p.MIMEType, len(p.Picture))
		if d := picture.Dimensions(p.Picture); d != "" {
			val += ", " + d
		}
		if p.Description != "" {
			val += fmt.Sprintf(", %q", p.Description)
		}
		m.Fields = append(m.Fields, core.MetaField{
			Key:      p.PictureType.String(),
			Value:    val,
			Category: "APIC",
			Raw:      fmt.Sprintf("type %d, %s", byte(p.PictureType), p.Encoding),
		})
		if core.PictureMIME(p.Picture) == "image/jpeg" {
			if fields, err := picture.EXIFFields(p.Picture); err == nil {
				m.Fields = append(m.Fields, fields...)
			}
		}
	}
	return m, nil
}

// rawFrame describes a frame's header for verbose output.
func rawFrame(f id3.Frame) string {
	s := fmt.Sprintf("%s (%s), %s", f.ID, f.ID.Description(), f.Content.Kind())
	var flags []string
	if f.Flags.TagAlterPreservation == id3.Discarded {
		flags = append(flags, "discard on tag alter")
	}
	if f.Flags.FileAlterPreservation == id3.Discarded {
		flags = append(flags, "discard on file alter")
	}
	for _, fl := range []struct {
		set  bool
		name string
	}{
		{f.Flags.ReadOnly, "read-only"},
		{f.Flags.Grouping, "grouping"},
		{f.Flags.Compressed, "compressed"},
		{f.Flags.Encrypted, "encrypted"},
		{f.Flags.Unsynchronised, "unsynchronised"},
		{f.Flags.HasDataLengthIndicator, "data length indicator"},
	} {
		if fl.set {
			flags = append(flags, fl.name)
		}
	}
	if len(flags) > 0 {
		s += " [" + strings.Join(flags, ", ") + "]"
	}
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) Edit(path string, outPath string, opts core.EditOptions) error {
	out := core.ResolveOutPath(path, outPath)
	f, err := h.load(path)
	if err != nil {
		return err
	}
	v := tagview.New(f.tag)
	major := v.Tag().Version.Major

	for _, k := range opts.Delete {
		if strings.EqualFold(k, "pictures") {
			v.RemoveAllPictures()
			continue
		}
		id, ok := frameID(k, major)
		if !ok {
			return errors.Errorf("unknown field %q", k)
		}
		v.Tag().RemoveFrames(id)
	}

	// Sorted so that new frames land in the same places on every run.
	keys := make([]string, 0, len(opts.Set))
	for k := range opts.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := setField(v, k, opts.Set[k]); err != nil {
			return err
		}
	}

	if opts.DryRun {
		var frames []string
		for _, fr := range v.Tag().Frames {
			frames = append(frames, fmt.Sprintf("%s = %s", fr.ID, fr.Value()))
		}
		h.printer().PrintChanges(fmt.Sprintf("Dry-run: %s tag of %s would be written to %s:", v.Tag().Version, path, out), frames)
		return nil
	}
	return h.save(f, v.Tag(), out)
}

func setField(v *tagview.View, name, value string) error {
	major := v.Tag().Version.Major
	id, ok := frameID(name, major)
	if !ok {
		return errors.Errorf("unknown field %q", name)
	}
	switch {
	case id == "TRCK":
		n, err := tagview.ParseTrackNumber(value)
		if err != nil {
			return err
		}
		v.SetTrack(n)
	case id == "COMM":
		upsertComment(v, value)
	case id == "USLT":
		upsertLyrics(v, value)
	case id == "TXXX" || id == "WXXX":
		return errors.Errorf("%s needs a description and can't be set by name", id)
	case id3.Classify(id) == id3.KindText:
		v.SetText(id, value)
	case id3.Classify(id) == id3.KindURLLink:
		t := v.Tag()
		if i := t.FindFrame(id); i >= 0 {
			t.Frames[i].Content = &id3.URLLinkContent{URL: value}
		} else {
			t.Frames = append(t.Frames, id3.Frame{
				FrameHeader: id3.FrameHeader{ID: id},
				Content:     &id3.URLLinkContent{URL: value},
			})
		}
	default:
		return errors.Errorf("frame %s can't be set from text", id)
	}
	return nil
}

func newEncoding(major byte) id3.Encoding {
	if major >= 4 {
		return id3.UTF8
	}
	return id3.UTF16
}

// upsertComment sets the text of the first comment with an empty
// description, or adds one in English.
func upsertComment(v *tagview.View, text string) {
	t := v.Tag()
	for _, f := range t.Frames {
		if c, ok := f.Content.(*id3.CommentContent); ok && c.Description == "" {
			c.Text = text
			c.Encoding = newEncoding(t.Version.Major)
			return
		}
	}
	t.Frames = append(t.Frames, id3.Frame{
		FrameHeader: id3.FrameHeader{ID: "COMM"},
		Content:     &id3.CommentContent{Encoding: newEncoding(t.Version.Major), Language: "eng", Text: text},
	})
}

// upsertLyrics does for USLT what upsertComment does for COMM.
func upsertLyrics(v *tagview.View, lyrics string) {
	t := v.Tag()
	for _, f := range t.Frames {
		if c, ok := f.Content.(*id3.UnsynchronisedLyricsContent); ok && c.Descriptor == "" {
			c.Lyrics = lyrics
			c.Encoding = newEncoding(t.Version.Major)
			return
		}
	}
	t.Frames = append(t.Frames, id3.Frame{
		FrameHeader: id3.FrameHeader{ID: "USLT"},
		Content:     &id3.UnsynchronisedLyricsContent{Encoding: newEncoding(t.Version.Major), Language: "eng", Lyrics: lyrics},
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Strip
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) Strip(path string, outPath string, opts core.StripOptions) error {
	out := core.ResolveOutPath(path, outPath)
	f, err := h.load(path)
	if err != nil {
		return err
	}
	if f.tag == nil {
		if opts.DryRun {
			fmt.Fprintf(h.Out, "Dry-run: %s has no ID3v2 tag\n", path)
			return nil
		}
		return os.WriteFile(out, f.c.Remove(), 0644)
	}

	if len(opts.KeepFields) == 0 {
		if opts.DryRun {
			fmt.Fprintf(h.Out, "Dry-run: %s tag with %d frames would be removed\n", f.tag.Version, len(f.tag.Frames))
			return nil
		}
		return os.WriteFile(out, f.c.Remove(), 0644)
	}

	keep := make(map[id3.FrameID]bool)
	for _, k := range opts.KeepFields {
		if id, ok := frameID(k, f.tag.Version.Major); ok {
			keep[id] = true
		}
	}
	if opts.KeepPictures {
		keep["APIC"] = true
	}
	kept := f.tag.Frames[:0]
	var removed []string
	for _, fr := range f.tag.Frames {
		if keep[fr.ID] {
			kept = append(kept, fr)
			continue
		}
		removed = append(removed, string(fr.ID))
	}
	if opts.DryRun {
		h.printer().PrintChanges("Dry-run: frames that would be removed:", removed)
		return nil
	}
	f.tag.Frames = kept
	return h.save(f, f.tag, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pictures
// ──────────────────────────────────────────────────────────────────────────────

// AttachPicture adds a picture to the tag, replacing any picture of the
// same type. A file without a tag gets a new v2.4 tag.
func (h *Handler) AttachPicture(path, outPath string, opts tagview.PictureOptions) error {
	f, err := h.load(path)
	if err != nil {
		return err
	}
	v := tagview.New(f.tag)
	if err := v.AttachPicture(opts); err != nil {
		return err
	}
	return h.save(f, v.Tag(), core.ResolveOutPath(path, outPath))
}

// ExtractPicture returns the first picture of the given type.
func (h *Handler) ExtractPicture(path string, pt id3.PictureType) (tagview.Picture, error) {
	f, err := h.load(path)
	if err != nil {
		return tagview.Picture{}, err
	}
	if f.tag == nil {
		return tagview.Picture{}, errors.Errorf("%s has no ID3v2 tag", path)
	}
	p, ok := tagview.New(f.tag).FindPicture(pt)
	if !ok {
		return tagview.Picture{}, errors.Errorf("%s has no %q picture", path, pt)
	}
	return p, nil
}

// RemovePicture removes the pictures of the given type, or every
// picture if all is set.
func (h *Handler) RemovePicture(path, outPath string, pt id3.PictureType, all bool) error {
	f, err := h.load(path)
	if err != nil {
		return err
	}
	if f.tag == nil {
		return errors.Errorf("%s has no ID3v2 tag", path)
	}
	v := tagview.New(f.tag)
	if all {
		v.RemoveAllPictures()
	} else {
		v.RemovePicture(pt)
	}
	return h.save(f, v.Tag(), core.ResolveOutPath(path, outPath))
}
