package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestDiffusionFillsFromUniformSurroundings(t *testing.T) {
	bg := color.NRGBA{R: 100, G: 150, B: 200, A: 255}
	img := newFilled(60, 60, bg)
	fillRect(img, image.Rect(20, 20, 40, 40), color.NRGBA{A: 255}) // destroyed interior
	mask := maskRect(60, 60, image.Rect(20, 20, 40, 40))

	out := diffusionInpainter{}.Inpaint(img, mask, 3)

	// Diffusion from a uniform boundary reconstructs the uniform color.
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			i := out.PixOffset(x, y)
			if out.Pix[i] != bg.R || out.Pix[i+1] != bg.G || out.Pix[i+2] != bg.B {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want %v", x, y,
					out.Pix[i], out.Pix[i+1], out.Pix[i+2], bg)
			}
		}
	}
	// Pixels outside the mask are untouched.
	if !pixelsEqual(img, out, 5, 5) || !pixelsEqual(img, out, 55, 55) {
		t.Fatal("inpainting modified pixels outside the mask")
	}
}

func TestDiffusionGradientStaysBounded(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			i := img.PixOffset(x, y)
			v := uint8(50 + x*3)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
		}
	}
	mask := maskRect(60, 60, image.Rect(20, 20, 40, 40))
	out := diffusionInpainter{}.Inpaint(img, mask, 3)

	// Reconstructed values must stay within the surrounding gradient range.
	lo, hi := uint8(50), uint8(50+59*3)
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			v := out.Pix[out.PixOffset(x, y)]
			if v < lo || v > hi {
				t.Fatalf("pixel (%d,%d) = %d outside surrounding range [%d,%d]", x, y, v, lo, hi)
			}
		}
	}
}

func TestDiffusionFullMaskFillsWhite(t *testing.T) {
	img := newFilled(20, 20, color.NRGBA{R: 5, G: 6, B: 7, A: 255})
	mask := maskRect(20, 20, image.Rect(0, 0, 20, 20))

	out := diffusionInpainter{}.Inpaint(img, mask, 3)
	i := out.PixOffset(10, 10)
	if out.Pix[i] != 255 || out.Pix[i+1] != 255 || out.Pix[i+2] != 255 {
		t.Fatal("a fully masked image has no boundary to diffuse from and should fill white")
	}
}

func TestDiffusionIsDeterministic(t *testing.T) {
	img := noisy(50, 50)
	mask := maskRect(50, 50, image.Rect(10, 15, 35, 40))

	a := diffusionInpainter{}.Inpaint(img, mask, 3)
	b := diffusionInpainter{}.Inpaint(img, mask, 3)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("two runs differ at byte %d", i)
		}
	}
}

func TestNewInpainterSelectsImplementation(t *testing.T) {
	inp := NewInpainter()
	if inp == nil || inp.Name() == "" {
		t.Fatal("inpainter selection must always yield a named implementation")
	}
}
