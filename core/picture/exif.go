// Package picture inspects the images carried by attached picture
// frames.
package picture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// EXIFFields returns the EXIF fields of a JPEG image, sorted by name. It
// fails if the image has no EXIF block.
func EXIFFields(data []byte) ([]core.MetaField, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "no EXIF metadata found")
	}
	w := &walker{}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	sort.Slice(w.fields, func(i, j int) bool { return w.fields[i].Key < w.fields[j].Key })
	return w.fields, nil
}

type walker struct {
	fields []core.MetaField
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	val := tag.String()
	// Remove surrounding quotes from string values
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	w.fields = append(w.fields, core.MetaField{
		Key:      string(name),
		Value:    val,
		Category: "APIC EXIF",
	})
	return nil
}

// Dimensions returns "WxH" for JPEG, PNG and GIF images, or "" if the
// header can't be read.
func Dimensions(data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}
