package id3

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

var coverPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

// bogemTag writes a tag with github.com/bogem/id3v2 followed by a few
// bytes of fake audio.
func bogemTag(t *testing.T, version byte, enc id3v2.Encoding) []byte {
	t.Helper()
	bt := id3v2.NewEmptyTag()
	bt.SetVersion(version)
	bt.SetDefaultEncoding(enc)
	bt.SetTitle("Título")
	bt.SetArtist("Artist")
	bt.SetAlbum("Album")
	bt.AddTextFrame("TRCK", enc, "3/12")
	bt.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    enc,
		Language:    "eng",
		Description: "short",
		Text:        "a longer comment",
	})
	bt.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding:          enc,
		Language:          "eng",
		ContentDescriptor: "",
		Lyrics:            "first line\nsecond line",
	})
	bt.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    enc,
		Description: "CATALOG",
		Value:       "XY-1",
	})
	bt.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    enc,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "cover",
		Picture:     coverPNG,
	})

	var buf bytes.Buffer
	if _, err := bt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xFF, 0xFB, 0x90, 0x64})
	return buf.Bytes()
}

func findContent(t *testing.T, tg *Tag, id FrameID) Content {
	t.Helper()
	i := tg.FindFrame(id)
	if i < 0 {
		t.Fatalf("no %s frame in %+v", id, tg.Frames)
	}
	return tg.Frames[i].Content
}

func TestParseBogemTags(t *testing.T) {
	tests := []struct {
		name    string
		version byte
		enc     id3v2.Encoding
		want    Encoding
	}{
		{"v2.4 utf8", 4, id3v2.EncodingUTF8, UTF8},
		{"v2.4 latin1", 4, id3v2.EncodingISO, ISO88591},
		{"v2.4 utf16be", 4, id3v2.EncodingUTF16BE, UTF16BE},
		{"v2.3 utf16", 3, id3v2.EncodingUTF16, UTF16},
		{"v2.3 latin1", 3, id3v2.EncodingISO, ISO88591},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bogemTag(t, tt.version, tt.enc)
			tg, err := Parse(data)
			if err != nil {
				t.Fatal(err)
			}
			if tg.Version.Major != tt.version {
				t.Errorf("version %s, want major %d", tg.Version, tt.version)
			}

			for id, want := range map[FrameID]string{"TIT2": "Título", "TPE1": "Artist", "TALB": "Album", "TRCK": "3/12"} {
				c, ok := findContent(t, tg, id).(*TextContent)
				if !ok {
					t.Errorf("%s: content %T", id, findContent(t, tg, id))
					continue
				}
				if c.Text != want || c.Encoding != tt.want {
					t.Errorf("%s = %q (%s), want %q (%s)", id, c.Text, c.Encoding, want, tt.want)
				}
			}

			comm := findContent(t, tg, "COMM").(*CommentContent)
			if comm.Language != "eng" || comm.Description != "short" || comm.Text != "a longer comment" {
				t.Errorf("COMM = %+v", comm)
			}
			uslt := findContent(t, tg, "USLT").(*UnsynchronisedLyricsContent)
			if uslt.Lyrics != "first line\nsecond line" || uslt.Descriptor != "" {
				t.Errorf("USLT = %+v", uslt)
			}
			txxx := findContent(t, tg, "TXXX").(*UserDefinedTextContent)
			if txxx.Description != "CATALOG" || txxx.Text != "XY-1" {
				t.Errorf("TXXX = %+v", txxx)
			}
			apic := findContent(t, tg, "APIC").(*AttachedPictureContent)
			if apic.MIMEType != "image/png" || apic.PictureType != PictureFrontCover ||
				apic.Description != "cover" || !bytes.Equal(apic.Picture, coverPNG) {
				t.Errorf("APIC = %+v", apic)
			}

			out, err := Dump(tg, data)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasSuffix(out, []byte{0xFF, 0xFB, 0x90, 0x64}) {
				t.Error("audio bytes lost")
			}
			bt, err := id3v2.ParseReader(bytes.NewReader(out), id3v2.Options{Parse: true})
			if err != nil {
				t.Fatalf("bogem/id3v2 can't read our dump: %v", err)
			}
			if bt.Title() != "Título" || bt.Artist() != "Artist" || bt.Album() != "Album" {
				t.Errorf("bogem/id3v2 read %q, %q, %q", bt.Title(), bt.Artist(), bt.Album())
			}
		})
	}
}

func TestDumpReadByDhowden(t *testing.T) {
	for _, major := range []byte{3, 4} {
		enc := UTF8
		if major == 3 {
			enc = UTF16
		}
		tg := &Tag{
			Version: Version{Major: major},
			Frames: []Frame{
				{FrameHeader{ID: "TIT2"}, &TextContent{Encoding: enc, Text: "Grüße"}},
				{FrameHeader{ID: "TPE1"}, &TextContent{Encoding: ISO88591, Text: "Artist"}},
				{FrameHeader{ID: "TALB"}, &TextContent{Encoding: enc, Text: "日本語"}},
				{FrameHeader{ID: "TRCK"}, &TextContent{Encoding: enc, Text: "2/9"}},
				{FrameHeader{ID: "COMM"}, &CommentContent{Encoding: enc, Language: "eng", Text: "comment"}},
				{FrameHeader{ID: "USLT"}, &UnsynchronisedLyricsContent{Encoding: enc, Language: "eng", Lyrics: "lyrics"}},
				{FrameHeader{ID: "APIC"}, &AttachedPictureContent{
					Encoding:    enc,
					MIMEType:    "image/png",
					PictureType: PictureFrontCover,
					Description: "cover",
					Picture:     coverPNG,
				}},
			},
		}
		out, err := (&Encoder{Padding: 32}).Dump(tg, nil)
		if err != nil {
			t.Fatal(err)
		}
		m, err := tag.ReadFrom(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("v2.%d: dhowden/tag: %v", major, err)
		}
		if m.Title() != "Grüße" || m.Artist() != "Artist" || m.Album() != "日本語" {
			t.Errorf("v2.%d: read %q, %q, %q", major, m.Title(), m.Artist(), m.Album())
		}
		if n, total := m.Track(); n != 2 || total != 9 {
			t.Errorf("v2.%d: track %d/%d", major, n, total)
		}
		if m.Comment() != "comment" {
			t.Errorf("v2.%d: comment %q", major, m.Comment())
		}
		if m.Lyrics() != "lyrics" {
			t.Errorf("v2.%d: lyrics %q", major, m.Lyrics())
		}
		p := m.Picture()
		if p == nil || p.MIMEType != "image/png" || !bytes.Equal(p.Data, coverPNG) {
			t.Errorf("v2.%d: picture %+v", major, p)
		}
	}
}
