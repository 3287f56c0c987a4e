package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// pangoShaper shells out to pango-view, which runs a full shaping pipeline
// (HarfBuzz) and so renders Indic conjuncts and matras correctly. Output is
// rasterized at 72 dpi so the requested point size equals pixels.
type pangoShaper struct {
	bin string
}

func pangoAvailable() (string, bool) {
	bin, err := exec.LookPath("pango-view")
	if err != nil {
		return "", false
	}
	return bin, true
}

func newPangoShaper(bin string) *pangoShaper {
	return &pangoShaper{bin: bin}
}

func (p *pangoShaper) Name() string { return "pango" }

func (p *pangoShaper) Render(text, family string, sizePx int, col color.NRGBA) (*image.NRGBA, error) {
	if family == "" {
		family = "Sans"
	}
	tmpDir, err := os.MkdirTemp("", "invite-shape-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	outPath := filepath.Join(tmpDir, "text.png")

	args := []string{
		"--no-display",
		"--dpi=72",
		fmt.Sprintf("--font=%s %d", family, sizePx),
		fmt.Sprintf("--foreground=#%02x%02x%02x", col.R, col.G, col.B),
		"--background=transparent",
		"--output=" + outPath,
		"--text=" + text,
	}
	cmd := exec.Command(p.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pango-view failed: %v: %s", err, stderr.String())
	}

	img, err := imaging.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read shaped text: %w", err)
	}
	return imaging.Clone(img), nil
}
