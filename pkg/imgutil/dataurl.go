package imgutil

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// DataURL encodes payload as a base64 data URL.
func DataURL(mime string, payload []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// DecodeDataURL returns the media type and bytes of a base64 data URL.
func DecodeDataURL(s string) (string, []byte, error) {
	header, encoded, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, err
	}

	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return mime, data, nil
}
