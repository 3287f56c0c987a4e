package pixel

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

func quickConfig() *quick.Config {
	return &quick.Config{
		MaxCount: 100,
		Rand:     rand.New(rand.NewSource(42)),
	}
}

func randomPage(r *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func randomBuffer(r *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix) // random color and random alpha
	return img
}

// Zero-bleed: whatever the page, zone and rendered content look like, no
// pixel outside the mask may change through compositing.
func TestCompositeStrictZeroBleedProperty(t *testing.T) {
	property := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		w := 20 + r.Intn(80)
		h := 20 + r.Intn(80)
		page := randomPage(r, w, h)

		rect := zone.PixelRect{
			X0: r.Intn(w), Y0: r.Intn(h),
		}
		rect.X1 = rect.X0 + r.Intn(w-rect.X0+1)
		rect.Y1 = rect.Y0 + r.Intn(h-rect.Y0+1)
		mask := rect.Mask(w, h)

		buf := randomBuffer(r, 1+r.Intn(w+10), 1+r.Intn(h+10))
		padding := r.Intn(8)

		out := CompositeStrict(page, buf, rect, mask, padding)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if mask.GrayAt(x, y).Y == 0 && !pixelsEqual(page, out, x, y) {
					return false
				}
			}
		}
		return true
	}
	if err := quick.Check(property, quickConfig()); err != nil {
		t.Fatal(err)
	}
}

func TestCompositeStrictPlacesBufferCentered(t *testing.T) {
	page := newFilled(100, 100, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	rect := zone.PixelRect{X0: 20, Y0: 20, X1: 80, Y1: 60}
	mask := rect.Mask(100, 100)
	buf := newFilled(10, 10, color.NRGBA{R: 255, A: 255})

	out := CompositeStrict(page, buf, rect, mask, 6)

	// Interior is 48x28 at (26,26); a 10x10 buffer centers at (45,35).
	i := out.PixOffset(49, 39)
	if out.Pix[i] != 255 || out.Pix[i+1] != 0 || out.Pix[i+2] != 0 {
		t.Fatalf("expected red at buffer center, got (%d,%d,%d)",
			out.Pix[i], out.Pix[i+1], out.Pix[i+2])
	}
	i = out.PixOffset(44, 35)
	if out.Pix[i+1] != 255 {
		t.Fatal("pixel left of the buffer should still be white")
	}
}

func TestCompositeStrictHandlesOversizedBuffer(t *testing.T) {
	page := noisy(50, 50)
	rect := zone.PixelRect{X0: 10, Y0: 10, X1: 40, Y1: 40}
	mask := rect.Mask(50, 50)
	buf := newFilled(200, 200, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	out := CompositeStrict(page, buf, rect, mask, 0)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if mask.GrayAt(x, y).Y == 0 && !pixelsEqual(page, out, x, y) {
				t.Fatalf("oversized buffer bled outside the mask at (%d,%d)", x, y)
			}
		}
	}
}

func TestCompositeStrictNilBufferIsIdentity(t *testing.T) {
	page := noisy(80, 80)
	rect := zone.PixelRect{X0: 10, Y0: 10, X1: 70, Y1: 70}
	mask := rect.Mask(80, 80)

	out := CompositeStrict(page, nil, rect, mask, 6)
	if !bytes.Equal(out.Pix, page.Pix) {
		t.Fatal("nil buffer must leave the page unchanged")
	}
}

// Erasing and compositing no text leaves the erased zone stable: a second
// no-text pass changes nothing.
func TestEraseThenEmptyCompositeIsIdempotent(t *testing.T) {
	rect := zone.PixelRect{X0: 100, Y0: 100, X1: 200, Y1: 160}
	img := noisy(300, 300)
	mask := rect.Mask(300, 300)
	cfg := &zone.MaskConfig{Enabled: true, Mode: zone.MaskModeSolid, Color: "#4488cc"}

	erased, _, err := EraseZone(img, mask, cfg, NewInpainter(), DefaultEraseOptions())
	if err != nil {
		t.Fatal(err)
	}
	once := CompositeStrict(erased, nil, rect, mask, 6)
	twice := CompositeStrict(once, nil, rect, mask, 6)

	if !bytes.Equal(once.Pix, twice.Pix) {
		t.Fatal("second no-text pass modified the page")
	}
}
