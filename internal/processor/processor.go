package processor

import (
	"context"
	"errors"
	"path"

	"go.uber.org/zap"

	"gyuu/pkg/imgutil"
)

// paletteColors is the palette size used when Options.Palette is set.
const paletteColors = 256

// Processor runs one source file through decode, resize, encode and the
// size fallback.
type Processor struct {
	decoder Decoder
	encoder Encoder
	logger  *zap.SugaredLogger
}

// New returns a Processor. Nil collaborators fall back to the codec
// implementations and a no-op logger.
func New(decoder Decoder, encoder Encoder, logger *zap.SugaredLogger) *Processor {
	if decoder == nil {
		decoder = CodecDecoder{}
	}
	if encoder == nil {
		encoder = CodecEncoder{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Processor{decoder: decoder, encoder: encoder, logger: logger}
}

// Process compresses src. The returned item has no ID; the batch session
// assigns one. Errors are *DecodeError or *EncodeError, or the context
// error when ctx is already done.
func (p *Processor) Process(ctx context.Context, src SourceFile, opts Options) (ResultItem, error) {
	if err := ctx.Err(); err != nil {
		return ResultItem{}, err
	}
	opts = opts.Normalized()

	kind, err := sourceKind(src)
	if err != nil {
		return ResultItem{}, err
	}
	srcMIME := kind.MIME()

	img, err := p.decoder.Decode(src.Data, srcMIME)
	if err != nil {
		return ResultItem{}, &DecodeError{Name: src.Name, Err: err}
	}

	b := img.Bounds()
	width, height := TargetSize(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)
	img = Resize(img, width, height)

	out := ResolveOutput(opts.Format, srcMIME, src.Name)
	if imgutil.KindFromMIME(out.MIME) == imgutil.KindPNG {
		quantized := QuantizeImage(img, ColorCountForQuality(opts.Quality))
		img = quantized
		if opts.Palette {
			img = Palettize(quantized, paletteColors)
		}
	}

	encoded, err := p.encoder.Encode(img, out.MIME, opts.Quality)
	if err != nil {
		var encErr *EncodeError
		if errors.As(err, &encErr) {
			return ResultItem{}, err
		}
		return ResultItem{}, &EncodeError{MIME: out.MIME, Err: err}
	}
	if len(encoded) == 0 {
		return ResultItem{}, &EncodeError{MIME: out.MIME, Err: ErrEmptyPayload}
	}

	meta, metaErr := InspectMetadata(src.Data, kind)
	if metaErr != nil {
		p.logger.Debugw("metadata inspection failed", "file", src.Name, "error", metaErr)
	}

	payload, fellBack := Decide(src.Data, encoded, opts.Format)
	removed := meta.Tags
	if fellBack {
		removed = 0
		if opts.StripMetadata && meta.Tags > 0 && (kind == imgutil.KindJPEG || kind == imgutil.KindPNG) {
			stripped, stripErr := StripMetadata(payload, kind, opts.PreserveICC)
			if stripErr != nil {
				p.logger.Warnw("metadata strip failed, keeping original bytes", "file", src.Name, "error", stripErr)
			} else {
				payload = stripped
				removed = meta.Tags
			}
		}
	}

	p.logger.Debugw("processed",
		"file", src.Name,
		"mime", out.MIME,
		"width", width,
		"height", height,
		"original", len(src.Data),
		"encoded", len(encoded),
		"fallback", fellBack,
	)

	fileName := DerivedName(src.Name, out.Ext)
	return ResultItem{
		OriginalName:    src.Name,
		FileName:        fileName,
		RelPath:         path.Join(src.Dir, fileName),
		MIMEType:        out.MIME,
		OriginalSize:    int64(len(src.Data)),
		CompressedSize:  int64(len(payload)),
		Width:           width,
		Height:          height,
		Payload:         payload,
		Preview:         imgutil.DataURL(out.MIME, payload),
		FellBack:        fellBack,
		MetadataRemoved: removed,
	}, nil
}

// sourceKind trusts the declared MIME type and sniffs the header otherwise.
func sourceKind(src SourceFile) (imgutil.Kind, error) {
	kind := imgutil.KindFromMIME(src.MIME)
	if kind != imgutil.KindUnknown {
		return kind, nil
	}
	sniffed, err := imgutil.DetectHeader(src.Data)
	if err != nil || sniffed == imgutil.KindUnknown {
		return imgutil.KindUnknown, &DecodeError{Name: src.Name, Err: ErrUnsupportedFormat}
	}
	return sniffed, nil
}
