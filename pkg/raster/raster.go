// Package raster converts template PDF pages into pixel images that the
// personalization pipeline edits in place.
//
// Key Features:
//   - Poppler-backed rasterization (pdftoppm) when the tool is installed,
//     with automatic detection at construction time
//   - Pure-Go fallback that extracts the embedded page images from the PDF
//     and scales them to the page geometry, so flattened templates work on
//     machines without poppler
//   - Page count and page size inspection without external tools
//   - Resolution control in dots per inch; page point sizes map to pixels
//     as px = pt * dpi / 72
//
// Main Functions:
//   - New: pick the best available rasterizer
//   - Rasterizer.Rasterize: render every page of a document
//   - PageCount: number of pages in a document
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
)

// ErrNoPages reports a document from which no pages could be read.
var ErrNoPages = errors.New("document has no pages")

// Rasterizer renders every page of a PDF document to a pixel image.
type Rasterizer interface {
	// Name identifies the implementation in logs.
	Name() string
	// Rasterize renders all pages of the document at path, in page order,
	// at the given resolution.
	Rasterize(ctx context.Context, path string, dpi float64) ([]*image.NRGBA, error)
}

// DocumentError wraps a failure tied to a specific template document. It is
// fatal for the whole batch, unlike per-row errors.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// New returns the best rasterizer for this machine: poppler's pdftoppm when
// it is on PATH, otherwise the embedded-image fallback.
func New() Rasterizer {
	if bin, ok := popplerAvailable(); ok {
		log.Debug().Str("rasterizer", "poppler").Str("bin", bin).Msg("rasterizer selected")
		return &popplerRasterizer{bin: bin}
	}
	log.Debug().Str("rasterizer", "embedded").Msg("pdftoppm not found, using embedded-image fallback")
	return &embeddedRasterizer{}
}

// PageCount returns the number of pages in the document at path.
func PageCount(path string) (int, error) {
	if ctx, err := api.ReadContextFile(path); err == nil {
		return ctx.PageCount, nil
	}
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return 0, &DocumentError{Path: path, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()
	return r.NumPage(), nil
}

// pageSize is one page's extent in typographic points.
type pageSize struct {
	wPt float64
	hPt float64
}

// defaultPageSize is US Letter, used when a page carries no readable
// MediaBox.
var defaultPageSize = pageSize{wPt: 612, hPt: 792}

// pageSizes reads the MediaBox of every page. Pages with missing or
// degenerate boxes get the default size.
func pageSizes(path string) ([]pageSize, error) {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, &DocumentError{Path: path, Err: ErrNoPages}
	}
	sizes := make([]pageSize, n)
	for i := 1; i <= n; i++ {
		sizes[i-1] = defaultPageSize
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		box := page.V.Key("MediaBox")
		if box.IsNull() || box.Len() < 4 {
			continue
		}
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if w > 0 && h > 0 {
			sizes[i-1] = pageSize{wPt: w, hPt: h}
		}
	}
	return sizes, nil
}

// pixelDims converts a page size in points to image dimensions at dpi.
func pixelDims(size pageSize, dpi float64) (int, int) {
	w := int(math.Round(size.wPt * dpi / 72.0))
	h := int(math.Round(size.hPt * dpi / 72.0))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
