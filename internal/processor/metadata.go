package processor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"gyuu/pkg/imgutil"
)

// MetadataReport summarizes identifying metadata carried by an input file.
// Re-encoding drops all of it.
type MetadataReport struct {
	HasGPS       bool
	HasModel     bool
	HasTimestamp bool
	Serials      int
	// Tags counts EXIF tags plus PNG text and time chunks.
	Tags int
}

// Categories lists the populated categories in display order.
func (r MetadataReport) Categories() []string {
	cats := []string{}
	if r.HasGPS {
		cats = append(cats, "GPS")
	}
	if r.HasModel {
		cats = append(cats, "Device Model")
	}
	if r.HasTimestamp {
		cats = append(cats, "Timestamp")
	}
	if r.Serials > 0 {
		cats = append(cats, "Serial Number")
	}
	return cats
}

// InspectMetadata reports the metadata in data. EXIF parse failures in
// PNG and WebP containers are ignored since the universal search can trip
// over compressed pixel data.
func InspectMetadata(data []byte, kind imgutil.Kind) (MetadataReport, error) {
	report := MetadataReport{}

	switch kind {
	case imgutil.KindJPEG, imgutil.KindTIFF:
		if err := inspectExif(data, &report); err != nil {
			return report, err
		}
	case imgutil.KindPNG:
		if err := inspectPNGChunks(data, &report); err != nil {
			return report, err
		}
		_ = inspectContainerExif(bytes.NewReader(data), &report)
	case imgutil.KindWebP:
		_ = inspectContainerExif(bytes.NewReader(data), &report)
	}

	return report, nil
}

// inspectExif locates the raw TIFF block in JPEG or TIFF bytes and reads
// its IFDs.
func inspectExif(data []byte, report *MetadataReport) error {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if isNoExif(err) {
			return nil
		}
		return fmt.Errorf("find exif: %w", err)
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return fmt.Errorf("read exif: %w", err)
	}
	tallyExifTags(tags, report)
	return nil
}

// inspectContainerExif reads EXIF embedded in PNG and WebP containers.
func inspectContainerExif(rs io.ReadSeeker, report *MetadataReport) error {
	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if isNoExif(err) {
			return nil
		}
		return fmt.Errorf("read exif: %w", err)
	}
	tallyExifTags(tags, report)
	return nil
}

func tallyExifTags(tags []exif.ExifTag, report *MetadataReport) {
	for _, tag := range tags {
		name := tag.TagName
		report.Tags++

		switch {
		case strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS"):
			report.HasGPS = true
		case name == "Model" || name == "Make" || name == "CameraModelName":
			report.HasModel = true
		case name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime":
			report.HasTimestamp = true
		case strings.Contains(strings.ToLower(name), "serial"):
			report.Serials++
		}
	}
}

func isNoExif(err error) bool {
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// pngChunk is one chunk of a PNG stream; raw spans length, type, data and CRC.
type pngChunk struct {
	name string
	data []byte
	raw  []byte
}

// walkPNG calls fn for each chunk up to and including IEND.
func walkPNG(data []byte, fn func(pngChunk) error) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return errors.New("invalid PNG signature")
	}

	rest := data[len(pngSignature):]
	for len(rest) > 0 {
		if len(rest) < 12 {
			return io.ErrUnexpectedEOF
		}
		length := int(binary.BigEndian.Uint32(rest[:4]))
		end := 12 + length
		if length < 0 || end > len(rest) {
			return io.ErrUnexpectedEOF
		}

		chunk := pngChunk{
			name: string(rest[4:8]),
			data: rest[8 : 8+length],
			raw:  rest[:end],
		}
		if err := fn(chunk); err != nil {
			return err
		}
		if chunk.name == "IEND" {
			return nil
		}
		rest = rest[end:]
	}
	return nil
}

func inspectPNGChunks(data []byte, report *MetadataReport) error {
	return walkPNG(data, func(c pngChunk) error {
		switch c.name {
		case "tEXt", "zTXt", "iTXt":
			report.Tags++
			key := c.data
			if i := bytes.IndexByte(key, 0); i > 0 {
				key = key[:i]
			} else {
				return nil
			}
			lower := strings.ToLower(string(key))
			if strings.Contains(lower, "gps") || strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude") {
				report.HasGPS = true
			}
			if strings.Contains(lower, "model") || strings.Contains(lower, "make") {
				report.HasModel = true
			}
			if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
				report.HasTimestamp = true
			}
		case "tIME":
			report.Tags++
			report.HasTimestamp = true
		}
		return nil
	})
}
