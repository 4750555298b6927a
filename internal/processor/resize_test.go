package processor

import (
	"image"
	"math"
	"testing"
)

func TestTargetSizeUnbounded(t *testing.T) {
	w, h := TargetSize(4000, 3000, 0, 0)
	if w != 4000 || h != 3000 {
		t.Fatalf("got %dx%d, want 4000x3000", w, h)
	}

	w, h = TargetSize(800, 600, -5, -1)
	if w != 800 || h != 600 {
		t.Fatalf("non-positive bounds should be ignored, got %dx%d", w, h)
	}
}

func TestTargetSizeWidthThenHeight(t *testing.T) {
	cases := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{4000, 3000, 1920, 0, 1920, 1440},
		{3000, 4000, 0, 1000, 750, 1000},
		{1000, 1000, 1200, 1200, 1000, 1000},
		// width pass: 1000x500 -> height pass: 1000*(300/500)
		{2000, 1000, 1000, 300, 600, 300},
		{1001, 3, 1000, 0, 1000, 3},
		{333, 100, 100, 0, 100, 30},
	}

	for _, tc := range cases {
		w, h := TargetSize(tc.srcW, tc.srcH, tc.maxW, tc.maxH)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("TargetSize(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tc.srcW, tc.srcH, tc.maxW, tc.maxH, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestTargetSizeWithinBoundsAndAspect(t *testing.T) {
	for srcW := 1; srcW <= 400; srcW += 37 {
		for srcH := 1; srcH <= 400; srcH += 41 {
			for _, bound := range [][2]int{{50, 50}, {120, 30}, {17, 300}, {399, 2}} {
				w, h := TargetSize(srcW, srcH, bound[0], bound[1])
				if w > bound[0] || h > bound[1] {
					t.Fatalf("%dx%d bounded by %v gave %dx%d", srcW, srcH, bound, w, h)
				}
				if w == 1 || h == 1 {
					continue
				}
				// w/h vs srcW/srcH within one rounding unit on either axis.
				expectH := float64(w) * float64(srcH) / float64(srcW)
				expectW := float64(h) * float64(srcW) / float64(srcH)
				if math.Abs(expectH-float64(h)) > 1.5 && math.Abs(expectW-float64(w)) > 1.5 {
					t.Fatalf("%dx%d bounded by %v gave %dx%d, aspect drifted", srcW, srcH, bound, w, h)
				}
			}
		}
	}
}

func TestResizeKeepsSameSizeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 5))
	if got := Resize(img, 10, 5); got != image.Image(img) {
		t.Fatalf("expected the same image back")
	}
	got := Resize(img, 4, 2)
	if got.Bounds().Dx() != 4 || got.Bounds().Dy() != 2 {
		t.Fatalf("got %v", got.Bounds())
	}
}
