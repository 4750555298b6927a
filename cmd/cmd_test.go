package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"gyuu/internal/batch"
	"gyuu/internal/config"
	"gyuu/internal/processor"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestCompressCommandSavesIntoOutputDir(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writePNG(t, filepath.Join(in, "photo.png"), 32, 32)
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"compress", "--env-file", "", "--no-progress", "-o", outDir, "-f", "webp", in})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "photo.webp")); err != nil {
		t.Fatalf("expected photo.webp in output dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "notes.txt")); !os.IsNotExist(err) {
		t.Fatalf("non-image should not be saved, stat err = %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"photo.png", "photo.webp", "Files compressed", "Saved 1 file(s)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCompressRecursiveKeepsFolderLayout(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(in, sub), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writePNG(t, filepath.Join(in, "a", "photo.png"), 16, 16)
	writePNG(t, filepath.Join(in, "b", "photo.png"), 24, 24)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"compress", "--env-file", "", "--no-progress", "-r", "-o", outDir, "-f", "png", in})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, rel := range []string{filepath.Join("a", "photo.png"), filepath.Join("b", "photo.png")} {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			t.Fatalf("expected %s in output dir: %v", rel, err)
		}
	}
	if !strings.Contains(stdout.String(), "Saved 2 file(s)") {
		t.Fatalf("output:\n%s", stdout.String())
	}
}

func TestScanAndCompressShareDefaults(t *testing.T) {
	d := config.Defaults()
	want := map[string]string{
		"quality":    strconv.Itoa(d.Quality),
		"format":     d.Format,
		"max-width":  strconv.Itoa(d.MaxWidth),
		"max-height": strconv.Itoa(d.MaxHeight),
		"recursive":  strconv.FormatBool(d.Recursive),
	}
	for _, c := range []*cobra.Command{scanCmd, compressCmd} {
		for name, def := range want {
			f := c.Flags().Lookup(name)
			if f == nil {
				t.Fatalf("%s: missing --%s", c.Name(), name)
			}
			if f.DefValue != def {
				t.Fatalf("%s --%s default = %q, want %q", c.Name(), name, f.DefValue, def)
			}
		}
	}
}

func TestSummaryRowsWithoutData(t *testing.T) {
	rows := summaryRows(batch.Summary{})
	if last := rows[len(rows)-1]; last.Label != "Reduction" || last.Value != "n/a" {
		t.Fatalf("reduction row = %+v", last)
	}

	rows = summaryRows(batch.Summary{Count: 2, OriginalBytes: 2048, CompressedBytes: 1024, ReductionPercent: 50, HasData: true})
	if last := rows[len(rows)-1]; last.Value != "-50.0%" {
		t.Fatalf("reduction row = %+v", last)
	}
}

func TestDescribeFailure(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "failed"},
		{&processor.DecodeError{Name: "a.png", Err: processor.ErrUnsupportedFormat}, "could not decode"},
		{&processor.EncodeError{MIME: "image/webp", Err: errors.New("boom")}, "could not encode image/webp: boom"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tc := range cases {
		if got := describeFailure(tc.err); !strings.Contains(got, tc.want) {
			t.Fatalf("describeFailure(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
