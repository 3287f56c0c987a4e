package pixel

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// AnalyzeOptions holds the sampling heuristics for background estimation.
// The defaults are visually tuned; none of the numbers carry meaning beyond
// that.
type AnalyzeOptions struct {
	RingKernel      int // Structuring element size for growing the mask into a sampling ring
	RingIterations  int // Dilation iterations; together with RingKernel sets the ring width
	MinRingPixels   int // Below this many ring pixels the estimate falls back to white
	BrightSum       int // R+G+B at or above this counts as glare and is filtered out
	MinSignalPixels int // Minimum filtered pixels before the filter result is trusted
}

// DefaultAnalyzeOptions returns the tuned sampling defaults.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		RingKernel:      20,
		RingIterations:  8,
		MinRingPixels:   50,
		BrightSum:       750,
		MinSignalPixels: 50,
	}
}

// Background is the analyzer's estimate of what surrounds a zone: the
// median color of the sampled ring and the mean per-channel standard
// deviation as a texture proxy. Low deviation means a flat, solid
// background.
type Background struct {
	Color     color.NRGBA
	Deviation float64
}

// Sum returns R+G+B of the estimated color, the brightness measure used by
// the eraser's near-white rule.
func (b Background) Sum() int {
	return int(b.Color.R) + int(b.Color.G) + int(b.Color.B)
}

// AnalyzeBackground estimates the background around a zone by sampling a
// ring of pixels obtained by dilating the mask and subtracting the mask
// itself. Bright pixels (glare, white design elements) are filtered from
// the ring before the estimate so a nearby highlight cannot wash out the
// color of a tinted card stock; if the filter leaves too few pixels the
// whole ring is used instead. A ring that is too small to be meaningful
// yields plain white with zero deviation.
func AnalyzeBackground(img *image.NRGBA, mask *image.Gray, opts AnalyzeOptions) Background {
	white := Background{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}

	grown := Dilate(mask, opts.RingKernel, opts.RingKernel, opts.RingIterations)
	ring := SubtractMask(grown, mask)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var rs, gs, bs []int
	for y := 0; y < h; y++ {
		mrow := ring.Pix[y*ring.Stride:]
		prow := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			if mrow[x] == 0 {
				continue
			}
			rs = append(rs, int(prow[x*4]))
			gs = append(gs, int(prow[x*4+1]))
			bs = append(bs, int(prow[x*4+2]))
		}
	}
	if len(rs) < opts.MinRingPixels {
		return white
	}

	// Prefer the non-glare subset when it is large enough to be a signal.
	var fr, fg, fb []int
	for i := range rs {
		if rs[i]+gs[i]+bs[i] < opts.BrightSum {
			fr = append(fr, rs[i])
			fg = append(fg, gs[i])
			fb = append(fb, bs[i])
		}
	}
	if len(fr) >= opts.MinSignalPixels {
		rs, gs, bs = fr, fg, fb
	}

	return Background{
		Color: color.NRGBA{
			R: uint8(median(rs)),
			G: uint8(median(gs)),
			B: uint8(median(bs)),
			A: 255,
		},
		Deviation: (stddev(rs) + stddev(gs) + stddev(bs)) / 3,
	}
}

func median(vals []int) int {
	s := make([]int, len(vals))
	copy(s, vals)
	sort.Ints(s)
	return s[len(s)/2]
}

func stddev(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += float64(v)
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := float64(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}
