package pixel

import "image"

// Inpainter reconstructs pixel content inside a masked region from its
// surroundings, without reference to what was originally there. The radius
// is the neighborhood hint used by implementations that take one.
type Inpainter interface {
	Name() string
	Inpaint(img *image.NRGBA, mask *image.Gray, radius int) *image.NRGBA
}

// NewInpainter selects the inpainting implementation at construction time:
// the OpenCV Telea inpainter when the binary was built with it, otherwise
// the pure-Go diffusion inpainter. Both are deterministic.
func NewInpainter() Inpainter {
	if openCVAvailable() {
		return newOpenCVInpainter()
	}
	return diffusionInpainter{}
}

// diffusionInpainter fills a masked region by marching inward from the
// region boundary: each unknown pixel takes the average of its already
// known 4-neighbors, layer by layer, followed by a few relaxation passes
// that smooth out the marching order. It approximates fast-marching
// inpainting well enough for erased text zones while staying pure Go.
type diffusionInpainter struct{}

func (diffusionInpainter) Name() string { return "diffusion" }

const diffusionSmoothPasses = 3

func (diffusionInpainter) Inpaint(img *image.NRGBA, mask *image.Gray, radius int) *image.NRGBA {
	out := clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return out
	}

	// state: 0 known, 1 unknown, 2 filled this run.
	state := make([]uint8, w*h)
	var frontier []int
	unknown := 0
	for y := 0; y < h; y++ {
		mrow := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			if mrow[x] != 0 {
				state[y*w+x] = 1
				unknown++
			}
		}
	}
	if unknown == 0 {
		return out
	}

	// Seed the frontier with unknown pixels that touch a known pixel.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if state[y*w+x] == 1 && hasKnownNeighbor(state, x, y, w, h) {
				frontier = append(frontier, y*w+x)
			}
		}
	}

	// Entire image masked: nothing to diffuse from, fill with white.
	if len(frontier) == 0 {
		for i := 0; i < w*h; i++ {
			out.Pix[i*4] = 255
			out.Pix[i*4+1] = 255
			out.Pix[i*4+2] = 255
			out.Pix[i*4+3] = 255
		}
		return out
	}

	for len(frontier) > 0 {
		var next []int
		for _, idx := range frontier {
			if state[idx] != 1 {
				continue
			}
			x, y := idx%w, idx/w
			var r, g, bl, n int
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if state[ny*w+nx] == 1 {
					continue
				}
				o := (ny*w + nx) * 4
				r += int(out.Pix[o])
				g += int(out.Pix[o+1])
				bl += int(out.Pix[o+2])
				n++
			}
			if n == 0 {
				next = append(next, idx)
				continue
			}
			o := idx * 4
			out.Pix[o] = uint8(r / n)
			out.Pix[o+1] = uint8(g / n)
			out.Pix[o+2] = uint8(bl / n)
			out.Pix[o+3] = 255
			state[idx] = 2
		}
		// Advance the frontier to unknown neighbors of everything filled
		// in this layer.
		for _, idx := range frontier {
			if state[idx] != 2 {
				continue
			}
			x, y := idx%w, idx/w
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if state[ny*w+nx] == 1 {
					next = append(next, ny*w+nx)
				}
			}
		}
		frontier = next
	}

	// Relaxation: average each filled pixel with its neighbors a few times
	// to wash out the layer-by-layer structure. Jacobi style so the result
	// does not depend on scan order.
	buf := make([]uint8, len(out.Pix))
	for pass := 0; pass < diffusionSmoothPasses; pass++ {
		copy(buf, out.Pix)
		for y := 0; y < h; y++ {
			mrow := mask.Pix[y*mask.Stride:]
			for x := 0; x < w; x++ {
				if mrow[x] == 0 {
					continue
				}
				var r, g, bl, n int
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					o := (ny*w + nx) * 4
					r += int(buf[o])
					g += int(buf[o+1])
					bl += int(buf[o+2])
					n++
				}
				o := (y*w + x) * 4
				out.Pix[o] = uint8(r / n)
				out.Pix[o+1] = uint8(g / n)
				out.Pix[o+2] = uint8(bl / n)
			}
		}
	}
	return out
}

func hasKnownNeighbor(state []uint8, x, y, w, h int) bool {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		if state[ny*w+nx] == 0 {
			return true
		}
	}
	return false
}
