package processor

import (
	"path/filepath"
	"strings"

	"gyuu/pkg/imgutil"
)

// Output is the resolved target type for one item.
type Output struct {
	MIME string
	Ext  string
}

// ResolveOutput picks the output MIME type and extension. Auto keeps the
// source type and extension; explicit formats force image/<format> with the
// canonical extension.
func ResolveOutput(format Format, srcMIME, srcName string) Output {
	if format.IsAuto() {
		if srcMIME == "" {
			srcMIME = imgutil.KindFromExt(srcName).MIME()
		}
		return Output{MIME: srcMIME, Ext: strings.TrimPrefix(filepath.Ext(srcName), ".")}
	}

	ext := string(format)
	if format == FormatJPEG {
		ext = "jpg"
	}
	return Output{MIME: "image/" + string(format), Ext: ext}
}

// DerivedName swaps the trailing extension of name for ext. Names without
// an extension get one appended; an empty ext leaves name unchanged.
func DerivedName(name, ext string) string {
	if ext == "" {
		return name
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "." + ext
}
