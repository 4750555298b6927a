package processor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// TargetSize bounds srcW x srcH by maxW and maxH, preserving aspect ratio.
// Bounds <= 0 are unset. The width bound is applied first and the height
// bound is then applied to the already scaled size, so this is not a
// simultaneous min-ratio fit.
func TargetSize(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := srcW, srcH

	if maxW > 0 && w > maxW {
		h = roundHalfUp(float64(h) * (float64(maxW) / float64(w)))
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = roundHalfUp(float64(w) * (float64(maxH) / float64(h)))
		h = maxH
	}

	return max(1, w), max(1, h)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Resize scales img to w x h with a Lanczos filter. img is returned as is
// when it already has that size.
func Resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
