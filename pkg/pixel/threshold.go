package pixel

import "image"

// Luma converts an RGBA page image to 8-bit grayscale using BT.601
// weights.
func Luma(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := 0; x < w; x++ {
			r := uint32(src[x*4])
			g := uint32(src[x*4+1])
			bl := uint32(src[x*4+2])
			dst[x] = uint8((299*r + 587*g + 114*bl) / 1000)
		}
	}
	return out
}

// AdaptiveThreshold marks pixels that are substantially darker than their
// local neighborhood: the output is 255 where src < localMean - offset and
// 0 elsewhere, with localMean taken over a block x block window clamped at
// the image border. The window mean comes from a summed-area table, so the
// cost is independent of the block size.
func AdaptiveThreshold(gray *image.Gray, block int, offset float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if block < 3 {
		block = 3
	}
	r := block / 2

	// integral[y][x] holds the sum over the rectangle [0,x) x [0,y).
	iw := w + 1
	integral := make([]uint64, iw*(h+1))
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(row[x])
			integral[(y+1)*iw+x+1] = integral[y*iw+x+1] + rowSum
		}
	}

	for y := 0; y < h; y++ {
		dst := out.Pix[y*out.Stride:]
		y0 := clampInt(y-r, 0, h-1)
		y1 := clampInt(y+r, 0, h-1)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-r, 0, w-1)
			x1 := clampInt(x+r, 0, w-1)
			area := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*iw+x1+1] - integral[y0*iw+x1+1] -
				integral[(y1+1)*iw+x0] + integral[y0*iw+x0]
			mean := float64(sum) / float64(area)
			if float64(gray.Pix[y*gray.Stride+x]) < mean-offset {
				dst[x] = 255
			}
		}
	}
	return out
}
