package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestLumaWeights(t *testing.T) {
	img := newFilled(4, 4, color.NRGBA{R: 255, A: 255})
	g := Luma(img)
	if got := g.GrayAt(1, 1).Y; got != 76 {
		t.Fatalf("pure red luma: got %d want 76", got)
	}

	img = newFilled(4, 4, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	g = Luma(img)
	if got := g.GrayAt(2, 2).Y; got != 200 {
		t.Fatalf("neutral gray luma: got %d want 200", got)
	}
}

func TestAdaptiveThresholdUniformImageIsEmpty(t *testing.T) {
	img := newFilled(50, 50, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	th := AdaptiveThreshold(Luma(img), 11, 10)
	for i, v := range th.Pix {
		if v != 0 {
			t.Fatalf("uniform image produced ink at pix %d", i)
		}
	}
}

func TestAdaptiveThresholdFindsDarkStroke(t *testing.T) {
	img := newFilled(60, 60, color.NRGBA{R: 220, G: 220, B: 220, A: 255})
	fillRect(img, image.Rect(15, 28, 45, 32), color.NRGBA{R: 30, G: 30, B: 30, A: 255})

	th := AdaptiveThreshold(Luma(img), 11, 10)

	if th.GrayAt(30, 30).Y != 255 {
		t.Fatal("stroke center not detected as ink")
	}
	if th.GrayAt(30, 10).Y != 0 {
		t.Fatal("background far from the stroke marked as ink")
	}
	if th.GrayAt(5, 5).Y != 0 {
		t.Fatal("corner background marked as ink")
	}
}
