package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/google/go-cmp/cmp"
)

func TestStringSlice(t *testing.T) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	var sets stringSlice
	fs.Var(&sets, "set", "")
	if err := fs.Parse([]string{"-set", "Title=A", "-set", "Artist=B", "song.mp3"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(stringSlice{"Title=A", "Artist=B"}, sets); diff != "" {
		t.Errorf("sets (-want +got):\n%s", diff)
	}
	if fs.Arg(0) != "song.mp3" {
		t.Errorf("file %q", fs.Arg(0))
	}
}

func TestParseArgCount(t *testing.T) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	if err := parse(fs, []string{"a.mp3", "b.mp3"}, 1); err == nil {
		t.Error("two files accepted")
	}
}

func TestExtensionFor(t *testing.T) {
	for mime, want := range map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"-->":        ".bin",
	} {
		if got := extensionFor(mime); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestViewVerboseEnablesLogging(t *testing.T) {
	defer func() { id3.Logging = false }()
	missing := filepath.Join(t.TempDir(), "missing.mp3")
	if err := runView([]string{"-v", missing}); err == nil {
		t.Error("view of a missing file succeeded")
	}
	if !id3.Logging {
		t.Error("-v did not enable id3 logging")
	}
}
