package imgutil

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindWebP
	KindGIF
	KindBMP
	KindTIFF
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindWebP:
		return "webp"
	case KindGIF:
		return "gif"
	case KindBMP:
		return "bmp"
	case KindTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// MIME returns the media type for k, or "" for KindUnknown.
func (k Kind) MIME() string {
	if k == KindUnknown {
		return ""
	}
	return "image/" + k.String()
}

// headerLen is the number of leading bytes needed to tell every Kind apart.
const headerLen = 12

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	gif87Sig  = []byte("GIF87a")
	gif89Sig  = []byte("GIF89a")
	bmpSig    = []byte("BM")
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
)

var errShortHeader = errors.New("header too short")

// DetectHeader inspects the leading bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 2 {
		return KindUnknown, errShortHeader
	}

	switch {
	case bytes.HasPrefix(header, jpegSig):
		return KindJPEG, nil
	case bytes.HasPrefix(header, pngSig):
		return KindPNG, nil
	case len(header) >= 12 && bytes.HasPrefix(header, riffSig) && bytes.Equal(header[8:12], webpSig):
		return KindWebP, nil
	case bytes.HasPrefix(header, gif87Sig), bytes.HasPrefix(header, gif89Sig):
		return KindGIF, nil
	case bytes.HasPrefix(header, tiffSigLE), bytes.HasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case bytes.HasPrefix(header, bmpSig):
		return KindBMP, nil
	}

	return KindUnknown, nil
}

// SniffReader reads up to 12 bytes from r and determines its type.
// Inputs shorter than a signature are reported as KindUnknown.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}

	kind, err := DetectHeader(header[:n])
	if errors.Is(err, errShortHeader) {
		return KindUnknown, nil
	}
	return kind, err
}

// KindFromExt maps a file extension (with or without the dot) to a Kind.
func KindFromExt(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(name, "."))
	}
	switch ext {
	case "jpg", "jpeg":
		return KindJPEG
	case "png":
		return KindPNG
	case "webp":
		return KindWebP
	case "gif":
		return KindGIF
	case "bmp":
		return KindBMP
	case "tif", "tiff":
		return KindTIFF
	default:
		return KindUnknown
	}
}

// KindFromMIME maps an image/* media type to a Kind.
func KindFromMIME(mime string) Kind {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "image/jpg" {
		return KindJPEG
	}
	for _, k := range []Kind{KindJPEG, KindPNG, KindWebP, KindGIF, KindBMP, KindTIFF} {
		if k.MIME() == mime {
			return k
		}
	}
	return KindUnknown
}
