package pixel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// EraseOptions holds the tuned heuristics of the zone eraser. All defaults
// are visually tuned; callers that need different behavior override
// individual fields.
type EraseOptions struct {
	HaloRadius          int     // Mask growth in pixels before filling, hides anti-aliased placeholder edges
	InkBlock            int     // Adaptive threshold window for magic erase ink detection
	InkOffset           float64 // How much darker than the local mean counts as ink
	InkDilateKernel     int     // Ink mask dilation kernel
	InkDilateIterations int     // Ink mask dilation iterations
	SolidMaxDeviation   float64 // Ring deviation below this classifies the background as solid
	BrightSum           int     // R+G+B at or above this counts as near-white
	FrostedSigma        float64 // Gaussian sigma of the seam-hiding blur over the erased patch
	FeatherSigma        float64 // Gaussian sigma of the boundary feather ramp
	InpaintRadius       int     // Neighborhood hint for the inpainter
	Analyze             AnalyzeOptions
}

// DefaultEraseOptions returns the tuned defaults. The halo radius exceeds
// the reach of both blur passes, which keeps manual fills exact everywhere
// inside the original mask.
func DefaultEraseOptions() EraseOptions {
	return EraseOptions{
		HaloRadius:          15,
		InkBlock:            21,
		InkOffset:           10,
		InkDilateKernel:     5,
		InkDilateIterations: 2,
		SolidMaxDeviation:   10,
		BrightSum:           750,
		FrostedSigma:        3.5,
		FeatherSigma:        2,
		InpaintRadius:       3,
		Analyze:             DefaultAnalyzeOptions(),
	}
}

// eraseStrategy is one named entry in the eraser's decision chain. apply
// reports whether the strategy handled the zone; the first one that does
// wins.
type eraseStrategy struct {
	name  string
	apply func(img *image.NRGBA, mask, grown *image.Gray, cfg *zone.MaskConfig, inp Inpainter, opts EraseOptions) (*image.NRGBA, bool, error)
}

var eraseStrategies = []eraseStrategy{
	{"manual-fill", applyManualFill},
	{"magic-erase", applyMagicErase},
	{"auto-background", applyAutoBackground},
}

// EraseZone removes existing content inside the mask using the first
// applicable strategy: a manually configured fill color always wins, the
// magic-erase mode removes detected ink strokes only, and everything else
// falls through to the automatic solid-fill vs. inpaint decision. The
// erased patch is then softened (frosted blur plus boundary feathering).
//
// The returned strategy name is the one that handled the zone. When the
// mask config disables erasure the input image is returned untouched.
// Pixels outside the mask grown by HaloRadius are never modified; strict
// zero-bleed against the original mask is the compositor's job, not this
// one's.
func EraseZone(img *image.NRGBA, mask *image.Gray, cfg *zone.MaskConfig, inp Inpainter, opts EraseOptions) (*image.NRGBA, string, error) {
	if cfg == nil || !cfg.Enabled || cfg.Mode == zone.MaskModeNone {
		return img, "none", nil
	}
	if !sameSize(img.Bounds(), mask.Bounds()) {
		return nil, "", fmt.Errorf("mask %v does not match image %v", mask.Bounds(), img.Bounds())
	}

	grown := GrowMask(mask, opts.HaloRadius)
	for _, s := range eraseStrategies {
		out, ok, err := s.apply(img, mask, grown, cfg, inp, opts)
		if err != nil {
			return nil, s.name, fmt.Errorf("erase strategy %s: %w", s.name, err)
		}
		if !ok {
			continue
		}
		return soften(img, out, grown, opts), s.name, nil
	}
	return img, "none", nil
}

// applyManualFill fills the grown mask with the configured override color.
// Applicable whenever a color is configured, regardless of mode.
func applyManualFill(img *image.NRGBA, _, grown *image.Gray, cfg *zone.MaskConfig, _ Inpainter, _ EraseOptions) (*image.NRGBA, bool, error) {
	if cfg.Color == "" {
		return nil, false, nil
	}
	col, err := zone.ParseHexColor(cfg.Color)
	if err != nil {
		return nil, false, err
	}
	out := clone(img)
	fillWhere(out, grown, col)
	return out, true, nil
}

// applyMagicErase inpaints only the ink strokes detected inside the zone,
// preserving the background texture between them.
func applyMagicErase(img *image.NRGBA, mask, _ *image.Gray, cfg *zone.MaskConfig, inp Inpainter, opts EraseOptions) (*image.NRGBA, bool, error) {
	if cfg.Mode != zone.MaskModeMagicErase {
		return nil, false, nil
	}
	ink := AdaptiveThreshold(Luma(img), opts.InkBlock, opts.InkOffset)
	intersectMask(ink, mask)
	ink = Dilate(ink, opts.InkDilateKernel, opts.InkDilateKernel, opts.InkDilateIterations)
	return inp.Inpaint(img, ink, opts.InpaintRadius), true, nil
}

// applyAutoBackground is the default: solid backgrounds get a direct fill
// with the analyzer's estimate, textured or near-white surroundings get
// diffusion inpainting across the whole grown mask. Near-white is routed
// to inpainting because a flat white reading usually means the zone sits
// inside an unrelated bright design element.
func applyAutoBackground(img *image.NRGBA, mask, grown *image.Gray, _ *zone.MaskConfig, inp Inpainter, opts EraseOptions) (*image.NRGBA, bool, error) {
	bg := AnalyzeBackground(img, mask, opts.Analyze)
	if bg.Deviation < opts.SolidMaxDeviation && bg.Sum() < opts.BrightSum {
		out := clone(img)
		fillWhere(out, grown, bg.Color)
		return out, true, nil
	}
	return inp.Inpaint(img, grown, opts.InpaintRadius), true, nil
}

// soften hides erase seams: the erased patch is replaced with a blurred
// version of itself (frosted glass look), then the boundary is feathered by
// blurring the grown mask into a soft alpha ramp between original and
// erased pixels.
func soften(original, erased *image.NRGBA, grown *image.Gray, opts EraseOptions) *image.NRGBA {
	out := erased
	if opts.FrostedSigma > 0 {
		blurred := imaging.Blur(erased, opts.FrostedSigma)
		frosted := clone(erased)
		copyWhere(frosted, blurred, grown)
		out = frosted
	}
	if opts.FeatherSigma > 0 {
		ramp := imaging.Blur(grown, opts.FeatherSigma)
		out = lerpByRamp(original, out, ramp)
	}
	return out
}

func fillWhere(img *image.NRGBA, mask *image.Gray, col color.NRGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		mrow := mask.Pix[y*mask.Stride:]
		prow := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			if mrow[x] == 0 {
				continue
			}
			prow[x*4] = col.R
			prow[x*4+1] = col.G
			prow[x*4+2] = col.B
			prow[x*4+3] = 255
		}
	}
}

func copyWhere(dst, src *image.NRGBA, mask *image.Gray) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		mrow := mask.Pix[y*mask.Stride:]
		drow := dst.Pix[y*dst.Stride:]
		srow := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			if mrow[x] == 0 {
				continue
			}
			copy(drow[x*4:x*4+4], srow[x*4:x*4+4])
		}
	}
}

// intersectMask clears every pixel of dst where keep is zero.
func intersectMask(dst, keep *image.Gray) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		drow := dst.Pix[y*dst.Stride:]
		krow := keep.Pix[y*keep.Stride:]
		for x := 0; x < w; x++ {
			if krow[x] == 0 {
				drow[x] = 0
			}
		}
	}
}

// lerpByRamp blends a and b per pixel using the R channel of ramp as the
// blend weight toward b.
func lerpByRamp(a, b *image.NRGBA, ramp *image.NRGBA) *image.NRGBA {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		arow := a.Pix[y*a.Stride:]
		brow := b.Pix[y*b.Stride:]
		rrow := ramp.Pix[y*ramp.Stride:]
		orow := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			t := int(rrow[x*4])
			for c := 0; c < 3; c++ {
				av := int(arow[x*4+c])
				bv := int(brow[x*4+c])
				orow[x*4+c] = uint8((bv*t + av*(255-t) + 127) / 255)
			}
			orow[x*4+3] = 255
		}
	}
	return out
}
