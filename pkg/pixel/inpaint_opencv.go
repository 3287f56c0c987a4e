//go:build opencv && cgo

package pixel

import (
	"image"

	"gocv.io/x/gocv"
)

// openCVAvailable reports that the OpenCV-backed inpainter was compiled in.
func openCVAvailable() bool { return true }

func newOpenCVInpainter() Inpainter { return openCVInpainter{} }

// openCVInpainter runs OpenCV's Telea fast-marching inpainting. Any
// conversion failure falls back to the diffusion inpainter for that call.
type openCVInpainter struct{}

func (openCVInpainter) Name() string { return "opencv-telea" }

func (o openCVInpainter) Inpaint(img *image.NRGBA, mask *image.Gray, radius int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return clone(img)
	}

	bgr := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			bgr[(y*w+x)*3] = src[x*4+2]
			bgr[(y*w+x)*3+1] = src[x*4+1]
			bgr[(y*w+x)*3+2] = src[x*4]
		}
	}
	mb := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(mb[y*w:(y+1)*w], mask.Pix[y*mask.Stride:y*mask.Stride+w])
	}

	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return diffusionInpainter{}.Inpaint(img, mask, radius)
	}
	defer src.Close()
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, mb)
	if err != nil {
		return diffusionInpainter{}.Inpaint(img, mask, radius)
	}
	defer m.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(src, m, &dst, float32(radius), gocv.Telea)

	data, err := dst.ToBytes()
	if err != nil || len(data) < w*h*3 {
		return diffusionInpainter{}.Inpaint(img, mask, radius)
	}
	out := clone(img)
	for y := 0; y < h; y++ {
		drow := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			drow[x*4] = data[(y*w+x)*3+2]
			drow[x*4+1] = data[(y*w+x)*3+1]
			drow[x*4+2] = data[(y*w+x)*3]
			drow[x*4+3] = 255
		}
	}
	return out
}
