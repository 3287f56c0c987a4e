package raster

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// popplerRasterizer shells out to pdftoppm, which renders vector content,
// embedded fonts and transparency faithfully. Preferred whenever available.
type popplerRasterizer struct {
	bin string
}

func popplerAvailable() (string, bool) {
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		return "", false
	}
	if err := exec.Command(bin, "-v").Run(); err != nil {
		return "", false
	}
	return bin, true
}

func (p *popplerRasterizer) Name() string { return "poppler" }

func (p *popplerRasterizer) Rasterize(ctx context.Context, path string, dpi float64) ([]*image.NRGBA, error) {
	count, err := PageCount(path)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &DocumentError{Path: path, Err: ErrNoPages}
	}

	tmpDir, err := os.MkdirTemp("", "invite-raster-")
	if err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("failed to create temp dir: %w", err)}
	}
	defer os.RemoveAll(tmpDir)

	pages := make([]*image.NRGBA, 0, count)
	for n := 1; n <= count; n++ {
		prefix := filepath.Join(tmpDir, fmt.Sprintf("page_%d", n))
		args := popplerArgs(n, dpi, path, prefix)

		cmd := exec.CommandContext(ctx, p.bin, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return nil, &DocumentError{
				Path: path,
				Err:  fmt.Errorf("pdftoppm failed on page %d: %v: %s", n, err, out),
			}
		}

		imgPath := prefix + ".png"
		img, err := imaging.Open(imgPath)
		if err != nil {
			return nil, &DocumentError{Path: path, Err: fmt.Errorf("failed to read rendered page %d: %w", n, err)}
		}
		os.Remove(imgPath)

		page := imaging.Clone(img)
		log.Debug().
			Int("page", n).
			Int("width", page.Bounds().Dx()).
			Int("height", page.Bounds().Dy()).
			Msg("page rasterized")
		pages = append(pages, page)
	}
	return pages, nil
}

// popplerArgs builds the pdftoppm invocation for a single page.
func popplerArgs(page int, dpi float64, pdfPath, outPrefix string) []string {
	return []string{
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-png",
		"-r", fmt.Sprintf("%d", int(math.Round(dpi))),
		"-singlefile",
		pdfPath,
		outPrefix,
	}
}
