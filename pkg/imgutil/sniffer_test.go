package imgutil

import (
	"bytes"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, KindJPEG},
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, KindPNG},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), KindWebP},
		{"riff wave", []byte("RIFF\x10\x00\x00\x00WAVEfmt "), KindUnknown},
		{"gif", []byte("GIF89a\x01\x00"), KindGIF},
		{"bmp", []byte("BM\x00\x00\x00\x00\x00\x00"), KindBMP},
		{"tiff", []byte{0x49, 0x49, 0x2a, 0x00, 8, 0, 0, 0}, KindTIFF},
		{"text", []byte("hello world!"), KindUnknown},
	}

	for _, tc := range cases {
		got, err := DetectHeader(tc.header)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestSniffReaderShortInput(t *testing.T) {
	kind, err := SniffReader(bytes.NewReader([]byte{0x01}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindUnknown {
		t.Fatalf("got %s, want unknown", kind)
	}
}

func TestKindLookups(t *testing.T) {
	if KindFromExt("photo.JPEG") != KindJPEG {
		t.Fatalf("expected jpeg from extension")
	}
	if KindFromExt("noext") != KindUnknown {
		t.Fatalf("expected unknown for missing extension")
	}
	if KindFromMIME("image/jpg") != KindJPEG || KindFromMIME("image/webp") != KindWebP {
		t.Fatalf("unexpected MIME lookup")
	}
	if KindPNG.MIME() != "image/png" {
		t.Fatalf("got %q", KindPNG.MIME())
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Fatalf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
	if got := FormatReduction(12.34); got != "-12.3%" {
		t.Fatalf("got %q", got)
	}
	if got := FormatReduction(-4); got != "+4.0%" {
		t.Fatalf("got %q", got)
	}
}
