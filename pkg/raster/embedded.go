package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
)

// embeddedRasterizer serves machines without poppler. It extracts the images
// embedded in each page and scales the largest one to the page geometry.
// Faithful for flattened templates, which carry one full-page image per
// page; vector-only pages come back as blank canvases.
type embeddedRasterizer struct{}

func (e *embeddedRasterizer) Name() string { return "embedded" }

func (e *embeddedRasterizer) Rasterize(ctx context.Context, path string, dpi float64) ([]*image.NRGBA, error) {
	sizes, err := pageSizes(path)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "invite-extract-")
	if err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("failed to create temp dir: %w", err)}
	}
	defer os.RemoveAll(tmpDir)

	best := extractPageImages(path, tmpDir)

	pages := make([]*image.NRGBA, len(sizes))
	for i, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, &DocumentError{Path: path, Err: err}
		}
		w, h := pixelDims(size, dpi)
		pageNum := i + 1

		if imgPath, ok := best[pageNum]; ok {
			if img, err := imaging.Open(imgPath); err == nil {
				pages[i] = imaging.Resize(img, w, h, imaging.Lanczos)
				log.Debug().
					Int("page", pageNum).
					Int("width", w).
					Int("height", h).
					Msg("page built from embedded image")
				continue
			}
		}
		pages[i] = whiteCanvas(w, h)
		log.Debug().Int("page", pageNum).Msg("no embedded image, using blank canvas")
	}
	return pages, nil
}

// extractPageImages pulls the embedded images out of the document and
// returns the largest file per page. An empty map means extraction failed
// or the document has no images; callers fall back to blank canvases.
func extractPageImages(path, dir string) map[int]string {
	if err := api.ExtractImagesFile(path, dir, nil, nil); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("embedded image extraction failed")
		return map[int]string{}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return map[int]string{}
	}

	best := make(map[int]string)
	bestSize := make(map[int]int64)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		page, ok := pageNumberFromImage(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize[page] {
			best[page] = filepath.Join(dir, entry.Name())
			bestSize[page] = info.Size()
		}
	}
	return best
}

// Extracted files are named <doc>_<page>_<resource>.<ext>.
var imageNameRe = regexp.MustCompile(`_(?:page_)?(\d+)_[^_]+\.(?i:png|jpe?g|tiff?)$`)

// pageNumberFromImage parses the 1-based page number out of an extracted
// image filename.
func pageNumberFromImage(name string) (int, bool) {
	m := imageNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func whiteCanvas(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.White)
}
