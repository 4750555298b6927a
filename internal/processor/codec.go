package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gyuu/pkg/imgutil"
)

// Decoder turns raw file bytes into a bitmap.
type Decoder interface {
	Decode(data []byte, mimeType string) (image.Image, error)
}

// Encoder turns a bitmap into file bytes of the given type. Encoders
// without a lossy mode ignore quality.
type Encoder interface {
	Encode(img image.Image, mimeType string, quality float64) ([]byte, error)
}

// CodecDecoder decodes every format registered with the image package and
// applies EXIF orientation.
type CodecDecoder struct{}

func (CodecDecoder) Decode(data []byte, mimeType string) (image.Image, error) {
	if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("not an image: %s", mimeType)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid image size: %dx%d", b.Dx(), b.Dy())
	}
	return img, nil
}

// CodecEncoder encodes JPEG, PNG, GIF, BMP and TIFF through imaging and
// WebP through gen2brain/webp.
type CodecEncoder struct {
	PNGCompression png.CompressionLevel
}

func (e CodecEncoder) Encode(img image.Image, mimeType string, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch imgutil.KindFromMIME(mimeType) {
	case imgutil.KindJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(qualityPercent(quality)))
	case imgutil.KindPNG:
		level := e.PNGCompression
		if level == png.DefaultCompression {
			level = png.BestCompression
		}
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(level))
	case imgutil.KindWebP:
		err = webp.Encode(&buf, img, webp.Options{Quality: qualityPercent(quality)})
	case imgutil.KindGIF:
		err = imaging.Encode(&buf, img, imaging.GIF)
	case imgutil.KindBMP:
		err = imaging.Encode(&buf, img, imaging.BMP)
	case imgutil.KindTIFF:
		err = imaging.Encode(&buf, img, imaging.TIFF)
	default:
		return nil, &EncodeError{MIME: mimeType, Err: ErrUnsupportedFormat}
	}

	if err != nil {
		return nil, &EncodeError{MIME: mimeType, Err: err}
	}
	if buf.Len() == 0 {
		return nil, &EncodeError{MIME: mimeType, Err: ErrEmptyPayload}
	}
	return buf.Bytes(), nil
}

func qualityPercent(q float64) int {
	p := int(math.Round(q * 100))
	return min(100, max(1, p))
}
