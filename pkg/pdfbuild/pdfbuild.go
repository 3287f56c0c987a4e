// Package pdfbuild assembles personalized page images back into a PDF
// document.
//
// Key Features:
//   - One PDF page per rendered image, sized so the page geometry matches
//     the template exactly (px * 72 / dpi points)
//   - Full-bleed JPEG embedding with configurable quality
//   - Optional invisible text layer carrying the recipient values, so the
//     output stays searchable even though every page is an image
//   - Emergency assembly path through pdfcpu when fpdf rejects a page
//
// Main Functions:
//   - Build: assemble pages into PDF bytes
//   - BuildToFile: assemble and write to disk
package pdfbuild

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoPages reports an assembly request without any page images.
var ErrNoPages = errors.New("no page images to assemble")

// BuildError wraps a failure in one stage of PDF assembly.
type BuildError struct {
	Stage string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("pdf build failed at %s: %v", e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// FontConfig selects the core PDF font used for the hidden text layer.
type FontConfig struct {
	Name        string  // Core font family, e.g. "Helvetica"
	Style       string  // "", "B", "I" or "BI"
	Size        float64 // Fallback size in points when an entry has none
	AscentRatio float64 // Baseline offset as a fraction of the font size
}

// DefaultFontConfig returns the standard hidden-layer font.
func DefaultFontConfig() FontConfig {
	return FontConfig{
		Name:        "Helvetica",
		Style:       "",
		Size:        10,
		AscentRatio: 0.718,
	}
}

// Options control PDF assembly.
type Options struct {
	JPEGQuality int        // Embedded image quality, 1-100
	TextLayer   bool       // Draw the hidden recipient-text layer
	LayerName   string     // Display name of the text layer
	DebugText   bool       // Render layer text visibly in red instead of hiding it
	Font        FontConfig // Hidden-layer font
}

// DefaultOptions returns the assembly settings used by the personalization
// pipeline.
func DefaultOptions() Options {
	return Options{
		JPEGQuality: 92,
		TextLayer:   false,
		LayerName:   "Recipient Text",
		Font:        DefaultFontConfig(),
	}
}

// LayerText is one hidden text run anchored to its zone rectangle, in page
// point coordinates with the origin at the top-left.
type LayerText struct {
	Page   int     // 1-based page number
	Text   string  // Recipient value as rendered
	X, Y   float64 // Zone top-left in points
	W, H   float64 // Zone extent in points
	SizePt float64 // Rendered size in points; zero uses the font fallback
}

// Build assembles the page images into a single PDF and returns its bytes.
// The dpi is the resolution the images were rasterized at and fixes the
// page geometry.
func Build(pages []*image.NRGBA, dpi float64, texts []LayerText, opts Options) ([]byte, error) {
	if len(pages) == 0 {
		return nil, &BuildError{Stage: "validate", Err: ErrNoPages}
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultOptions().JPEGQuality
	}

	pdf := fpdf.New("P", "pt", "A4", "")

	for i, page := range pages {
		pageNum := i + 1
		wPt := pointsFromPixels(page.Bounds().Dx(), dpi)
		hPt := pointsFromPixels(page.Bounds().Dy(), dpi)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: wPt, Ht: hPt})

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return nil, &BuildError{Stage: "encode", Err: fmt.Errorf("page %d: %w", pageNum, err)}
		}

		imageName := fmt.Sprintf("page%d", pageNum)
		imgOpts := fpdf.ImageOptions{ReadDpi: false, ImageType: "JPEG"}
		pdf.RegisterImageOptionsReader(imageName, imgOpts, bytes.NewReader(buf.Bytes()))
		pdf.ImageOptions(imageName, 0, 0, wPt, hPt, false, imgOpts, 0, "")

		if opts.TextLayer {
			if pageTexts := textsForPage(texts, pageNum); len(pageTexts) > 0 {
				drawTextLayer(pdf, pageTexts, pageNum, opts)
			}
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, &BuildError{Stage: "assemble", Err: err}
	}
	return out.Bytes(), nil
}

// BuildToFile assembles the pages and writes the PDF to path. When fpdf
// cannot assemble the document the pages are written through pdfcpu instead;
// that path embeds the same images but pins the page size to the image size
// at 72 dpi.
func BuildToFile(path string, pages []*image.NRGBA, dpi float64, texts []LayerText, opts Options) error {
	data, err := Build(pages, dpi, texts, opts)
	if err != nil {
		var buildErr *BuildError
		if errors.As(err, &buildErr) && buildErr.Stage == "validate" {
			return err
		}
		log.Warn().Err(err).Msg("primary assembly failed, retrying through pdfcpu")
		return buildWithPdfcpu(path, pages, opts.JPEGQuality)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &BuildError{Stage: "write", Err: err}
	}
	return nil
}

// buildWithPdfcpu writes each page image to a temp file and imports them as
// PDF pages.
func buildWithPdfcpu(path string, pages []*image.NRGBA, quality int) error {
	tmpDir, err := os.MkdirTemp("", "invite-build-")
	if err != nil {
		return &BuildError{Stage: "fallback", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, 0, len(pages))
	for i, page := range pages {
		f := filepath.Join(tmpDir, fmt.Sprintf("page_%d.jpg", i+1))
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: quality}); err != nil {
			return &BuildError{Stage: "fallback", Err: fmt.Errorf("page %d: %w", i+1, err)}
		}
		if err := os.WriteFile(f, buf.Bytes(), 0o644); err != nil {
			return &BuildError{Stage: "fallback", Err: err}
		}
		files = append(files, f)
	}
	if err := api.ImportImagesFile(files, path, nil, nil); err != nil {
		return &BuildError{Stage: "fallback", Err: err}
	}
	return nil
}

// drawTextLayer draws the recipient values for one page onto a hidden PDF
// layer so the document stays searchable.
func drawTextLayer(pdf *fpdf.Fpdf, entries []LayerText, pageNum int, opts Options) {
	layerName := fmt.Sprintf("%s (Page %d)", opts.LayerName, pageNum)
	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(opts.Font.Name, opts.Font.Style, opts.Font.Size)

	if opts.DebugText {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	skipped := 0
	for _, e := range entries {
		if !drawLayerEntry(pdf, e, opts.Font) {
			skipped++
		}
	}
	pdf.EndLayer()

	if skipped > 0 {
		log.Debug().
			Int("page", pageNum).
			Int("skipped", skipped).
			Msg("layer entries not encodable in the core font")
	}
}

// drawLayerEntry renders a single hidden text run. It reports false when the
// text cannot be represented in the core font's encoding; such entries are
// dropped rather than written as mojibake.
func drawLayerEntry(pdf *fpdf.Fpdf, e LayerText, font FontConfig) bool {
	latin1, err := latin1Encode(e.Text)
	if err != nil {
		return false
	}

	size := e.SizePt
	if size <= 0 {
		size = font.Size
	}
	pdf.SetFontSize(size)

	// Shrink to the zone width when the run overflows it.
	width := pdf.GetStringWidth(latin1)
	if width > e.W && width > 0 && e.W > 0 {
		pdf.SetFontSize(size * e.W / width)
		width = pdf.GetStringWidth(latin1)
	}

	fontSize, _ := pdf.GetFontSize()
	x := e.X + (e.W-width)/2
	if x < e.X {
		x = e.X
	}
	y := e.Y + fontSize*font.AscentRatio

	pdf.Text(x, y, latin1)
	pdf.SetFontSize(font.Size)
	return true
}

// latin1Encode converts text to ISO-8859-1, the encoding the core PDF fonts
// use.
func latin1Encode(text string) (string, error) {
	return charmap.ISO8859_1.NewEncoder().String(text)
}

// textsForPage filters the layer entries down to one page.
func textsForPage(texts []LayerText, page int) []LayerText {
	var out []LayerText
	for _, t := range texts {
		if t.Page == page {
			out = append(out, t)
		}
	}
	return out
}

// pointsFromPixels converts a pixel extent at dpi back to typographic
// points.
func pointsFromPixels(px int, dpi float64) float64 {
	return float64(px) * 72.0 / dpi
}
