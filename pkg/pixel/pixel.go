// Package pixel implements the raster core of card personalization: erasing
// pre-printed placeholder content inside a zone's coverage mask and
// compositing freshly rendered content back in, with a hard guarantee that
// nothing outside the mask ever changes.
//
// All operations work on 8-bit non-premultiplied RGBA page images
// (*image.NRGBA) and full-page single-channel coverage masks (*image.Gray,
// 255 inside the zone). Page images are treated as immutable inputs; every
// operation returns a new image.
//
// Key Features:
//
// - Background analysis around a zone: ring sampling with glare filtering,
//   per-channel median color and a deviation score
// - An ordered erasure strategy chain: manual color fill, ink-only magic
//   erase, automatic solid-fill vs. texture-aware inpainting
// - Seam hiding: frosted blur over the erased patch and feather blending at
//   the erase boundary
// - Diffusion inpainting with an optional OpenCV Telea implementation
//   selected at build time
// - Strict compositing that restores every pixel outside the mask
//   byte-for-byte after blending
//
// Main Functions:
//
// - AnalyzeBackground: estimate the background color and texture variance
// - EraseZone: remove existing content inside a mask
// - CompositeStrict: blend a rendered buffer into a zone without bleed
package pixel

import (
	"image"

	"github.com/disintegration/imaging"
)

// clone returns a zero-origin NRGBA copy of src.
func clone(src image.Image) *image.NRGBA {
	return imaging.Clone(src)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sameSize reports whether the two images cover rectangles of equal size.
func sameSize(a image.Rectangle, b image.Rectangle) bool {
	return a.Dx() == b.Dx() && a.Dy() == b.Dy()
}
