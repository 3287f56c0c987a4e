package pixel

import "image"

// Dilate grows the set region of a binary mask with a kw x kh box
// structuring element applied the given number of iterations. Input pixels
// are treated as set when nonzero; output pixels are 0 or 255. Pixels
// outside the image count as unset.
//
// Repeated box dilations compose into one larger box, so the image is
// swept once per axis regardless of the iteration count.
func Dilate(mask *image.Gray, kw, kh, iterations int) *image.Gray {
	rx := (kw - 1) * iterations / 2
	ry := (kh - 1) * iterations / 2
	return dilateRadius(mask, rx, ry)
}

// GrowMask dilates the mask by a square radius in pixels on every side.
func GrowMask(mask *image.Gray, radius int) *image.Gray {
	return dilateRadius(mask, radius, radius)
}

func dilateRadius(mask *image.Gray, rx, ry int) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if rx < 0 {
		rx = 0
	}
	if ry < 0 {
		ry = 0
	}

	// Horizontal pass: a pixel is set when a set source pixel lies within
	// rx columns on either side. Tracked with nearest-set scans in both
	// directions, O(w) per row.
	tmp := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		srcRow := mask.Pix[(y+b.Min.Y-mask.Rect.Min.Y)*mask.Stride:]
		dstRow := tmp[y*w : (y+1)*w]
		last := -rx - 1
		for x := 0; x < w; x++ {
			if srcRow[x+b.Min.X-mask.Rect.Min.X] != 0 {
				last = x
			}
			if x-last <= rx {
				dstRow[x] = 255
			}
		}
		last = w + rx
		for x := w - 1; x >= 0; x-- {
			if srcRow[x+b.Min.X-mask.Rect.Min.X] != 0 {
				last = x
			}
			if last-x <= rx {
				dstRow[x] = 255
			}
		}
	}

	// Vertical pass over the horizontal result.
	lastCol := make([]int, w)
	for x := 0; x < w; x++ {
		lastCol[x] = -ry - 1
	}
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			if tmp[y*w+x] != 0 {
				lastCol[x] = y
			}
			if y-lastCol[x] <= ry {
				row[x] = 255
			}
		}
	}
	for x := 0; x < w; x++ {
		lastCol[x] = h + ry
	}
	for y := h - 1; y >= 0; y-- {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			if tmp[y*w+x] != 0 {
				lastCol[x] = y
			}
			if lastCol[x]-y <= ry {
				row[x] = 255
			}
		}
	}
	return out
}

// SubtractMask returns a mask set wherever a is set and b is not. Used to
// carve the sampling ring around a zone out of its dilation.
func SubtractMask(a, b *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, a.Bounds().Dx(), a.Bounds().Dy()))
	for y := 0; y < a.Bounds().Dy(); y++ {
		ar := a.Pix[y*a.Stride:]
		br := b.Pix[y*b.Stride:]
		or := out.Pix[y*out.Stride:]
		for x := 0; x < a.Bounds().Dx(); x++ {
			if ar[x] != 0 && br[x] == 0 {
				or[x] = 255
			}
		}
	}
	return out
}
