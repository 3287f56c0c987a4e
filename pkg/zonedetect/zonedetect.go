// Package zonedetect suggests personalization zones by locating placeholder
// blocks on rasterized template pages.
//
// Designers usually leave sample text ("Guest Name", a sample couplet) where
// recipient content goes. The detector thresholds each page against its
// local background, dilates the ink horizontally so words merge into lines,
// and keeps the connected blocks that look like text runs. The result is a
// starting zone config to hand-tune, not a finished one.
//
// Key Features:
//   - Adaptive thresholding, robust against colored and textured art
//   - Horizontal dilation tuned to merge words without merging lines
//   - Size and area filters that drop specks and hairlines
//   - Candidates mapped back to template point coordinates
//
// Main Functions:
//   - DetectPage: pixel-space candidates for one page
//   - Suggest: a ready zone list for a whole document
package zonedetect

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/MeettPaladiya/Invite/pkg/pixel"
	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// Options tune placeholder detection.
type Options struct {
	Block      int     // Adaptive threshold window
	Offset     float64 // How far below the local mean counts as ink
	DilateW    int     // Horizontal dilation kernel, merges words into lines
	DilateH    int     // Vertical dilation kernel
	Iterations int     // Dilation iterations
	MinWidth   int     // Candidate filters, in pixels at detection resolution
	MinHeight  int
	MinArea    int
	MaxZones   int // Candidates kept per page
}

// DefaultOptions returns detection parameters tuned on wedding card
// templates rasterized at 150 dpi.
func DefaultOptions() Options {
	return Options{
		Block:      11,
		Offset:     2,
		DilateW:    15,
		DilateH:    3,
		Iterations: 2,
		MinWidth:   50,
		MinHeight:  20,
		MinArea:    1000,
		MaxZones:   10,
	}
}

// Candidate is one detected placeholder block in pixel space.
type Candidate struct {
	Page int             // 1-based page number
	Rect image.Rectangle // Bounding box in pixels
	Area int             // Ink pixel count after dilation
}

// DetectPage finds placeholder candidates on a single rasterized page,
// ordered top to bottom.
func DetectPage(img *image.NRGBA, pageNum int, opts Options) []Candidate {
	ink := pixel.AdaptiveThreshold(pixel.Luma(img), opts.Block, opts.Offset)
	merged := pixel.Dilate(ink, opts.DilateW, opts.DilateH, opts.Iterations)

	var out []Candidate
	for _, c := range components(merged) {
		if c.bounds.Dx() < opts.MinWidth || c.bounds.Dy() < opts.MinHeight || c.area < opts.MinArea {
			continue
		}
		out = append(out, Candidate{Page: pageNum, Rect: c.bounds, Area: c.area})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rect.Min.Y != out[j].Rect.Min.Y {
			return out[i].Rect.Min.Y < out[j].Rect.Min.Y
		}
		return out[i].Rect.Min.X < out[j].Rect.Min.X
	})
	if opts.MaxZones > 0 && len(out) > opts.MaxZones {
		out = out[:opts.MaxZones]
	}
	log.Debug().Int("page", pageNum).Int("candidates", len(out)).Msg("placeholders detected")
	return out
}

// Suggest runs detection over every page and returns a zone list in template
// point coordinates, ready to serialize into a starting config.
func Suggest(pages []*image.NRGBA, dpi float64, opts Options) []zone.Zone {
	scale := 72.0 / dpi
	var zones []zone.Zone
	for i, page := range pages {
		for _, c := range DetectPage(page, i+1, opts) {
			hPt := float64(c.Rect.Dy()) * scale
			zones = append(zones, zone.Zone{
				ID:   fmt.Sprintf("zone_%d", len(zones)+1),
				Page: c.Page,
				X:    float64(c.Rect.Min.X) * scale,
				Y:    float64(c.Rect.Min.Y) * scale,
				W:    float64(c.Rect.Dx()) * scale,
				H:    hPt,
				Kind: zone.KindText,
				Mask: zone.DefaultMaskConfig(),
				Text: suggestedText(hPt),
			})
		}
	}
	return zones
}

// suggestedText derives a starting text config from the block height: the
// placeholder's ink usually spans about 60% of its line box.
func suggestedText(hPt float64) zone.TextConfig {
	cfg := zone.DefaultTextConfig()
	size := math.Round(hPt * 0.6)
	if size < 10 {
		size = 10
	}
	if size > 48 {
		size = 48
	}
	cfg.Size = size
	return cfg
}

type component struct {
	bounds image.Rectangle
	area   int
}

// components labels 4-connected regions of set pixels.
func components(mask *image.Gray) []component {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	visited := make([]bool, w*h)
	var comps []component
	var queue []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			c := component{bounds: image.Rect(x, y, x+1, y+1)}
			visited[idx] = true
			queue = append(queue[:0], idx)

			for len(queue) > 0 {
				cur := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				cx, cy := cur%w, cur/w
				c.area++
				c.bounds = c.bounds.Union(image.Rect(cx, cy, cx+1, cy+1))

				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if visited[nidx] || mask.Pix[ny*mask.Stride+nx] == 0 {
						continue
					}
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
			comps = append(comps, c)
		}
	}
	return comps
}
