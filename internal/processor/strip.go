package processor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"gyuu/pkg/imgutil"
)

var (
	jpegExifHeader = []byte("Exif\x00\x00")
	jpegXmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegPhotoshop  = []byte("Photoshop 3.0\x00")
	jpegICCHeader  = []byte("ICC_PROFILE\x00")
)

// StripMetadata removes EXIF, XMP, IPTC and text metadata from JPEG and PNG
// bytes without touching pixel data. Other kinds are returned unchanged.
func StripMetadata(data []byte, kind imgutil.Kind, preserveICC bool) ([]byte, error) {
	switch kind {
	case imgutil.KindJPEG:
		return stripJPEG(data, preserveICC)
	case imgutil.KindPNG:
		return stripPNG(data, preserveICC)
	default:
		return data, nil
	}
}

func stripJPEG(data []byte, preserveICC bool) ([]byte, error) {
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		return nil, errors.New("invalid JPEG SOI")
	}

	out := bytes.NewBuffer(make([]byte, 0, len(data)))
	out.Write(data[:2])

	pos := 2
	for {
		for pos < len(data) && data[pos] != 0xff {
			pos++
		}
		for pos < len(data) && data[pos] == 0xff {
			pos++
		}
		if pos >= len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		marker := data[pos]
		pos++

		switch {
		case marker == 0xd9: // EOI
			out.Write([]byte{0xff, 0xd9})
			return out.Bytes(), nil
		case marker == 0xda: // SOS: entropy-coded data runs to the end
			out.Write([]byte{0xff, marker})
			out.Write(data[pos:])
			return out.Bytes(), nil
		case marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7):
			out.Write([]byte{0xff, marker})
			continue
		}

		if pos+2 > len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		if segLen < 2 {
			return nil, fmt.Errorf("invalid JPEG segment length %d", segLen)
		}
		end := pos + segLen
		if end > len(data) {
			return nil, io.ErrUnexpectedEOF
		}

		if !dropJPEGSegment(marker, data[pos+2:end], preserveICC) {
			out.Write([]byte{0xff, marker})
			out.Write(data[pos:end])
		}
		pos = end
	}
}

func dropJPEGSegment(marker byte, payload []byte, preserveICC bool) bool {
	switch marker {
	case 0xe1:
		return bytes.HasPrefix(payload, jpegExifHeader) || bytes.HasPrefix(payload, jpegXmpHeader)
	case 0xed:
		return bytes.HasPrefix(payload, jpegPhotoshop)
	case 0xe2:
		return !preserveICC && bytes.HasPrefix(payload, jpegICCHeader)
	}
	return false
}

func stripPNG(data []byte, preserveICC bool) ([]byte, error) {
	out := bytes.NewBuffer(make([]byte, 0, len(data)))
	out.Write(pngSignature)

	err := walkPNG(data, func(c pngChunk) error {
		if !dropPNGChunk(c.name, preserveICC) {
			out.Write(c.raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func dropPNGChunk(name string, preserveICC bool) bool {
	switch name {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	case "iCCP":
		return !preserveICC
	}
	return false
}
