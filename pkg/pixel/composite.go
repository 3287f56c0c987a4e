package pixel

import (
	"image"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// CompositeStrict blends a rendered RGBA buffer into a zone of the page and
// guarantees zero bleed: after source-over blending, every pixel whose mask
// value is zero is forced back to its pre-blend bytes. The guarantee holds
// unconditionally, even when offset arithmetic or blending rounds.
//
// The buffer is centered inside the zone rect shrunk by padding on each
// side, clamped so it never leaves the image. The page image itself is not
// modified; a new image is returned.
func CompositeStrict(page *image.NRGBA, buf *image.NRGBA, rect zone.PixelRect, mask *image.Gray, padding int) *image.NRGBA {
	out := clone(page)
	if buf == nil || !rect.Valid() {
		return out
	}
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	tw, th := buf.Bounds().Dx(), buf.Bounds().Dy()
	if tw == 0 || th == 0 {
		return out
	}

	xOff := rect.X0 + padding + (rect.Width()-2*padding-tw)/2
	yOff := rect.Y0 + padding + (rect.Height()-2*padding-th)/2
	xOff = clampInt(xOff, 0, maxInt(0, w-tw))
	yOff = clampInt(yOff, 0, maxInt(0, h-th))

	// Source-over blend of the buffer at its offset.
	for by := 0; by < th; by++ {
		py := yOff + by
		if py < 0 || py >= h {
			continue
		}
		brow := buf.Pix[by*buf.Stride:]
		prow := out.Pix[py*out.Stride:]
		for bx := 0; bx < tw; bx++ {
			px := xOff + bx
			if px < 0 || px >= w {
				continue
			}
			a := int(brow[bx*4+3])
			if a == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				sv := int(brow[bx*4+c])
				dv := int(prow[px*4+c])
				prow[px*4+c] = uint8((sv*a + dv*(255-a) + 127) / 255)
			}
			prow[px*4+3] = 255
		}
	}

	// Hard boundary: restore every pixel outside the mask byte-for-byte.
	for y := 0; y < h; y++ {
		mrow := mask.Pix[y*mask.Stride:]
		orow := out.Pix[y*out.Stride:]
		srow := page.Pix[y*page.Stride:]
		for x := 0; x < w; x++ {
			if mrow[x] == 0 {
				copy(orow[x*4:x*4+4], srow[x*4:x*4+4])
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
