package processor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/soniakeys/quant/median"
	"golang.org/x/image/draw"
)

const minColorCount = 16

// ColorCountForQuality maps quality in [0,1] to a colour count target.
func ColorCountForQuality(quality float64) int {
	return max(minColorCount, int(math.Floor(quality*256)))
}

// QuantizeStep is the channel rounding step for a colour count target:
// max(1, floor(256 / cbrt(colorCount))).
func QuantizeStep(colorCount int) int {
	if colorCount < 1 {
		colorCount = 1
	}
	return max(1, int(math.Floor(256/math.Cbrt(float64(colorCount)))))
}

// Quantize rounds the R, G and B channels of a flat non-premultiplied RGBA
// buffer to multiples of QuantizeStep(colorCount). Alpha is untouched.
func Quantize(pix []uint8, colorCount int) {
	QuantizeWithStep(pix, QuantizeStep(colorCount))
}

// QuantizeWithStep rounds half up to the nearest multiple of step and clamps
// to 255.
func QuantizeWithStep(pix []uint8, step int) {
	if step <= 1 {
		return
	}
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = roundChannel(pix[i], step)
		pix[i+1] = roundChannel(pix[i+1], step)
		pix[i+2] = roundChannel(pix[i+2], step)
	}
}

func roundChannel(c uint8, step int) uint8 {
	v := (2*int(c) + step) / (2 * step) * step
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// QuantizeImage returns a quantized NRGBA copy of img.
func QuantizeImage(img image.Image, colorCount int) *image.NRGBA {
	out := imaging.Clone(img)
	Quantize(out.Pix, colorCount)
	return out
}

// Palettize maps img onto an adaptive median-cut palette of at most colors
// entries.
func Palettize(img image.Image, colors int) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= colors {
		return p
	}
	paletted := median.Quantizer(colors).Paletted(img)
	draw.Draw(paletted, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return paletted
}
