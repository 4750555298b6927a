package processor

import "testing"

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"JPG":  FormatJPEG,
		"jpeg": FormatJPEG,
		"png":  FormatPNG,
		"webp": FormatWebP,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseFormat("avif"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestResolveOutput(t *testing.T) {
	cases := []struct {
		format  Format
		mime    string
		name    string
		want    Output
		derived string
	}{
		{FormatAuto, "image/png", "shot.png", Output{"image/png", "png"}, "shot.png"},
		{FormatAuto, "image/jpeg", "photo.JPEG", Output{"image/jpeg", "JPEG"}, "photo.JPEG"},
		{FormatJPEG, "image/png", "shot.png", Output{"image/jpeg", "jpg"}, "shot.jpg"},
		{FormatWebP, "image/jpeg", "a.b.jpg", Output{"image/webp", "webp"}, "a.b.webp"},
		{FormatPNG, "image/jpeg", "noext", Output{"image/png", "png"}, "noext.png"},
		{FormatAuto, "", "scan.gif", Output{"image/gif", "gif"}, "scan.gif"},
		{FormatAuto, "image/png", "noext", Output{"image/png", ""}, "noext"},
	}

	for _, tc := range cases {
		got := ResolveOutput(tc.format, tc.mime, tc.name)
		if got != tc.want {
			t.Fatalf("ResolveOutput(%q,%q,%q) = %+v, want %+v", tc.format, tc.mime, tc.name, got, tc.want)
		}
		if derived := DerivedName(tc.name, got.Ext); derived != tc.derived {
			t.Fatalf("DerivedName(%q,%q) = %q, want %q", tc.name, got.Ext, derived, tc.derived)
		}
	}
}
