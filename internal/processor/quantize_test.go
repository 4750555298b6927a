package processor

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestQuantizeStep(t *testing.T) {
	cases := map[int]int{
		0:           256,
		1:           256,
		16:          101,
		256:         40,
		1<<24 + 1:   1,
	}
	for count, want := range cases {
		if got := QuantizeStep(count); got != want {
			t.Fatalf("QuantizeStep(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestColorCountForQuality(t *testing.T) {
	cases := map[float64]int{
		0:    16,
		0.01: 16,
		0.5:  128,
		0.8:  204,
		1:    256,
	}
	for q, want := range cases {
		if got := ColorCountForQuality(q); got != want {
			t.Fatalf("ColorCountForQuality(%v) = %d, want %d", q, got, want)
		}
	}
}

func TestQuantizeRoundsChannelsAndKeepsAlpha(t *testing.T) {
	pix := []uint8{200, 47, 0, 77}
	QuantizeWithStep(pix, 94)
	want := []uint8{188, 94, 0, 77}
	if !bytes.Equal(pix, want) {
		t.Fatalf("got %v, want %v", pix, want)
	}

	pix = []uint8{200, 50, 255, 10}
	Quantize(pix, 16)
	want = []uint8{202, 0, 255, 10}
	if !bytes.Equal(pix, want) {
		t.Fatalf("got %v, want %v", pix, want)
	}
}

func TestQuantizeClampsOverflow(t *testing.T) {
	// 250/100 rounds up to 300.
	pix := []uint8{250, 251, 255, 255}
	QuantizeWithStep(pix, 100)
	for i := 0; i < 3; i++ {
		if pix[i] != 255 {
			t.Fatalf("channel %d = %d, want 255", i, pix[i])
		}
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	for _, count := range []int{16, 27, 100, 204, 256} {
		pix := make([]uint8, 256*4)
		for i := range pix {
			pix[i] = uint8(i)
		}
		Quantize(pix, count)
		once := append([]uint8(nil), pix...)
		Quantize(pix, count)
		if !bytes.Equal(once, pix) {
			t.Fatalf("count %d: second pass changed output", count)
		}
	}
}

func TestQuantizeImageCopies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
	out := QuantizeImage(src, 16)
	if out.Pix[0] != 202 {
		t.Fatalf("got R=%d", out.Pix[0])
	}
	if src.Pix[0] != 200 {
		t.Fatalf("source mutated")
	}
}

func TestPalettize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 90, A: 255})
		}
	}
	p := Palettize(src, 256)
	if len(p.Palette) == 0 || len(p.Palette) > 256 {
		t.Fatalf("unexpected palette size %d", len(p.Palette))
	}
	if p.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v", p.Bounds())
	}
}
