package processor

import (
	"fmt"
	"strings"
)

// Format is the requested output format policy.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat accepts auto, jpeg (or jpg), png and webp, case-insensitively.
// An empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, jpeg, png or webp)", s)
	}
}

// IsAuto reports whether the format keeps the source type.
func (f Format) IsAuto() bool {
	return f == "" || f == FormatAuto
}

type Options struct {
	// Quality is in [0,1]. Lossy encoders use it directly; for PNG it
	// drives quantization coarseness.
	Quality   float64
	Format    Format
	MaxWidth  int
	MaxHeight int
	// Palette reduces PNG output to an adaptive 256-colour palette after
	// quantization.
	Palette bool
	// StripMetadata scrubs EXIF/XMP/IPTC from original bytes kept by the
	// size fallback.
	StripMetadata bool
	PreserveICC   bool
}

// Normalized returns a copy with non-positive bounds unset and quality
// clamped to [0,1].
func (o Options) Normalized() Options {
	if o.MaxWidth < 0 {
		o.MaxWidth = 0
	}
	if o.MaxHeight < 0 {
		o.MaxHeight = 0
	}
	if o.Quality < 0 {
		o.Quality = 0
	}
	if o.Quality > 1 {
		o.Quality = 1
	}
	if o.Format == "" {
		o.Format = FormatAuto
	}
	return o
}

// Job is a file discovered on disk, not yet read.
type Job struct {
	Path    string
	RelPath string
	Display string
}

// SourceFile is one accepted input held in memory.
type SourceFile struct {
	Name string
	// Dir is the slash-separated folder relative to the input root; empty at
	// the top level.
	Dir string
	// MIME is the declared media type; empty means sniff from Data.
	MIME string
	Data []byte
}

type ResultItem struct {
	ID             string
	OriginalName   string
	FileName       string
	// RelPath is FileName under the source's Dir; saves keep this layout.
	RelPath        string
	MIMEType       string
	OriginalSize   int64
	CompressedSize int64
	Width          int
	Height         int
	Payload        []byte
	// Preview is Payload as a base64 data URL.
	Preview string
	// FellBack is set when re-encoding did not help and the original bytes
	// were kept.
	FellBack        bool
	MetadataRemoved int
}

// ReductionPercent is the signed size change; negative means growth.
func (r ResultItem) ReductionPercent() float64 {
	if r.OriginalSize <= 0 {
		return 0
	}
	return float64(r.OriginalSize-r.CompressedSize) / float64(r.OriginalSize) * 100
}

type ProgressUpdate struct {
	TotalDelta           int
	ProcessedDelta       int
	ErrorDelta           int
	FallbackDelta        int
	OriginalBytesDelta   int64
	CompressedBytesDelta int64
	Current              string
}
