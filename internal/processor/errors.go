package processor

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrEmptyPayload      = errors.New("encoder produced no data")
)

// DecodeError reports an unreadable or unsupported input image.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports that the encoder rejected the target type or parameters.
type EncodeError struct {
	MIME string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.MIME, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
