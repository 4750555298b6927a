package processor

import (
	"bytes"
	"image"

	"gyuu/pkg/imgutil"
)

// Plan is what Process would do with a source, worked out from the image
// header alone. Dimensions are as stored; EXIF orientation is not applied.
type Plan struct {
	Name         string
	SourceMIME   string
	Width        int
	Height       int
	TargetWidth  int
	TargetHeight int
	Output       Output
	FileName     string
	Quantized    bool
	Metadata     MetadataReport
}

// PlanSource reads src's header and reports the resize, output type and
// metadata Process would see, without decoding pixels or encoding.
func PlanSource(src SourceFile, opts Options) (Plan, error) {
	opts = opts.Normalized()

	kind, err := sourceKind(src)
	if err != nil {
		return Plan{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return Plan{}, &DecodeError{Name: src.Name, Err: err}
	}

	out := ResolveOutput(opts.Format, kind.MIME(), src.Name)
	w, h := TargetSize(cfg.Width, cfg.Height, opts.MaxWidth, opts.MaxHeight)
	meta, _ := InspectMetadata(src.Data, kind)

	return Plan{
		Name:         src.Name,
		SourceMIME:   kind.MIME(),
		Width:        cfg.Width,
		Height:       cfg.Height,
		TargetWidth:  w,
		TargetHeight: h,
		Output:       out,
		FileName:     DerivedName(src.Name, out.Ext),
		Quantized:    imgutil.KindFromMIME(out.MIME) == imgutil.KindPNG,
		Metadata:     meta,
	}, nil
}
