//go:build !opencv || !cgo

package pixel

// Stubs for builds without the OpenCV-backed inpainter. Build with
// -tags opencv (and OpenCV installed) to enable it; the diffusion
// inpainter serves everything otherwise.

func openCVAvailable() bool { return false }

func newOpenCVInpainter() Inpainter { return diffusionInpainter{} }
