package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/audio"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/ankit-chaubey/id3-surgery/core/tagview"
	"github.com/pkg/errors"
)

const usage = `Usage: surgery <command> [flags] FILE

Commands:
  view     [-json] [-v] FILE
  edit     [-o OUT] [-dry-run] [-padding N] -set KEY=VALUE... -delete KEY... FILE
  strip    [-o OUT] [-dry-run] [-keep KEY...] [-keep-pictures] FILE
  picture  attach  [-o OUT] [-type N] [-mime TYPE] [-desc TEXT] FILE IMAGE
  picture  extract [-type N] [-o OUT] FILE
  picture  remove  [-o OUT] [-type N] [-all] FILE
  formats
`

// stringSlice collects a flag given more than once.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	log.SetFlags(0)
	log.SetPrefix("surgery: ")
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "view":
		err = runView(args)
	case "edit":
		err = runEdit(args)
	case "strip":
		err = runStrip(args)
	case "picture":
		err = runPicture(args)
	case "formats":
		runFormats()
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// handlerFor detects the format of path and returns its handler.
func handlerFor(path string) (*audio.Handler, error) {
	id, err := core.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if !audio.Supported(id) {
		return nil, errors.Errorf("%s: %s files carry no ID3v2 tags", path, id)
	}
	return audio.New(id), nil
}

// parse parses args and checks the number of positional arguments.
func parse(fs *flag.FlagSet, args []string, n int) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != n {
		return errors.Errorf("%s: want %d file argument(s), got %d", fs.Name(), n, fs.NArg())
	}
	return nil
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print JSON")
	verbose := fs.Bool("v", false, "show frame headers and log parser warnings")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	id3.Logging = id3.LogFlag(*verbose)

	path := fs.Arg(0)
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	m, err := h.View(path)
	if err != nil {
		return err
	}
	core.NewPrinter(*jsonOut, *verbose).PrintMetadata(m)
	return nil
}

func runEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	out := fs.String("o", "", "write to this file instead of editing in place")
	dryRun := fs.Bool("dry-run", false, "show the resulting frames without writing")
	padding := fs.Int("padding", 0, "zero bytes to reserve after the frames")
	var sets, deletes stringSlice
	fs.Var(&sets, "set", "KEY=VALUE to set (repeatable)")
	fs.Var(&deletes, "delete", "KEY to remove (repeatable)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if len(sets) == 0 && len(deletes) == 0 {
		return errors.Errorf("edit: nothing to do, use -set or -delete")
	}

	opts := core.EditOptions{Set: map[string]string{}, Delete: deletes, DryRun: *dryRun}
	for _, s := range sets {
		k, v, ok := core.ParseKV(s)
		if !ok {
			return errors.Errorf("edit: %q is not KEY=VALUE", s)
		}
		opts.Set[k] = v
	}

	path := fs.Arg(0)
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	h.Padding = *padding
	if err := h.Edit(path, *out, opts); err != nil {
		return err
	}
	if !*dryRun {
		core.NewPrinter(false, false).PrintSuccess("tag written to " + core.ResolveOutPath(path, *out))
	}
	return nil
}

func runStrip(args []string) error {
	fs := flag.NewFlagSet("strip", flag.ExitOnError)
	out := fs.String("o", "", "write to this file instead of editing in place")
	dryRun := fs.Bool("dry-run", false, "show what would be removed without writing")
	keepPictures := fs.Bool("keep-pictures", false, "keep attached pictures along with -keep fields")
	var keep stringSlice
	fs.Var(&keep, "keep", "KEY to keep (repeatable)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	path := fs.Arg(0)
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	opts := core.StripOptions{KeepFields: keep, KeepPictures: *keepPictures, DryRun: *dryRun}
	if err := h.Strip(path, *out, opts); err != nil {
		return err
	}
	if !*dryRun {
		core.NewPrinter(false, false).PrintSuccess("stripped " + core.ResolveOutPath(path, *out))
	}
	return nil
}

func runPicture(args []string) error {
	if len(args) == 0 {
		return errors.Errorf("picture: want attach, extract or remove")
	}
	sub, args := args[0], args[1:]
	fs := flag.NewFlagSet("picture "+sub, flag.ExitOnError)
	out := fs.String("o", "", "output file")
	pt := fs.Uint("type", uint(id3.PictureFrontCover), "picture type, 0-20")
	mime := fs.String("mime", "", "MIME type of the image (detected if empty)")
	desc := fs.String("desc", "", "picture description")
	all := fs.Bool("all", false, "remove every picture")

	n := 1
	if sub == "attach" {
		n = 2
	}
	if err := parse(fs, args, n); err != nil {
		return err
	}
	if *pt > 0xFF {
		return errors.Errorf("picture: invalid type %d", *pt)
	}
	path := fs.Arg(0)
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	p := core.NewPrinter(false, false)

	switch sub {
	case "attach":
		data, err := os.ReadFile(fs.Arg(1))
		if err != nil {
			return err
		}
		err = h.AttachPicture(path, *out, tagview.PictureOptions{
			Type:        id3.PictureType(*pt),
			Data:        data,
			MIMEType:    *mime,
			Description: *desc,
		})
		if err != nil {
			return err
		}
		p.PrintSuccess(fmt.Sprintf("attached %q picture to %s", id3.PictureType(*pt), core.ResolveOutPath(path, *out)))
	case "extract":
		pic, err := h.ExtractPicture(path, id3.PictureType(*pt))
		if err != nil {
			return err
		}
		dst := *out
		if dst == "" {
			dst = "picture" + extensionFor(pic.MIMEType)
		}
		if err := os.WriteFile(dst, pic.Data, 0644); err != nil {
			return err
		}
		p.PrintSuccess(fmt.Sprintf("%s picture (%s, %d bytes) written to %s", pic.Type, pic.MIMEType, len(pic.Data), dst))
	case "remove":
		if err := h.RemovePicture(path, *out, id3.PictureType(*pt), *all); err != nil {
			return err
		}
		p.PrintSuccess("pictures removed from " + core.ResolveOutPath(path, *out))
	default:
		return errors.Errorf("picture: unknown subcommand %q", sub)
	}
	return nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return ".bin"
}

func runFormats() {
	for _, id := range []core.FormatID{core.FmtMP3, core.FmtWAV, core.FmtAIFF} {
		info := audio.New(id).Info()
		fmt.Printf("%-5s %-18s %s\n", info.Name, strings.Join(info.Extensions, " "), info.Notes)
		fmt.Printf("      editable: %s\n", strings.Join(info.EditableFields, ", "))
	}
}
