package pixel

import (
	"image"
	"image/color"
)

// Shared helpers for pixel tests.

func newFilled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !image.Pt(x, y).In(img.Bounds()) {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

func pixelsEqual(a, b *image.NRGBA, x, y int) bool {
	ai := a.PixOffset(x, y)
	bi := b.PixOffset(x, y)
	for c := 0; c < 4; c++ {
		if a.Pix[ai+c] != b.Pix[bi+c] {
			return false
		}
	}
	return true
}

// noisy fills the image with a deterministic high-variance pattern.
func noisy(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8((x*37 + y*91) % 256)
			img.Pix[i+1] = uint8((x*53 + y*17) % 256)
			img.Pix[i+2] = uint8((x*11 + y*73) % 256)
			img.Pix[i+3] = 255
		}
	}
	return img
}
