// Package invite personalizes rasterized template documents, one recipient
// at a time.
//
// The engine rasterizes a template PDF once, then stamps any number of
// recipient rows onto copies of those pages: every zone a row references is
// erased according to its mask settings and refilled with fitted text or a
// QR code. Edits never reach past a zone's pixel rectangle, so untouched
// template art survives byte for byte.
//
// Key Features:
//   - One-time template rasterization shared by every row in a batch
//   - Per-row page copies; the engine is safe for concurrent rows
//   - Complex-script aware text fitting with shrink-to-fit sizing
//   - Optional hidden text layer so output PDFs stay searchable
//   - Row-level failure isolation: a bad row never poisons the batch
//
// Main Functions:
//   - New: rasterize a template and build an engine
//   - NewFromImages: build an engine over pre-rendered pages
//   - Engine.PersonalizeRow: produce personalized pages for one row
//   - Engine.PersonalizeToFile: personalize and write the output PDF
package invite

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/MeettPaladiya/Invite/pkg/pdfbuild"
	"github.com/MeettPaladiya/Invite/pkg/pixel"
	"github.com/MeettPaladiya/Invite/pkg/raster"
	"github.com/MeettPaladiya/Invite/pkg/render"
	"github.com/MeettPaladiya/Invite/pkg/zone"
)

var (
	// ErrZoneNotFound reports a row referencing a zone id the template
	// config does not define. The row fails; the batch continues.
	ErrZoneNotFound = errors.New("zone not found in template config")

	// ErrPageOutOfRange reports a zone whose page number exceeds the
	// document. The zone is skipped with a warning; the row continues.
	ErrPageOutOfRange = errors.New("zone page outside document")
)

// Options tune the whole personalization pipeline.
type Options struct {
	DPI       float64            // Raster resolution; zero means 150
	Fit       render.FitOptions  // Text sizing parameters
	Erase     pixel.EraseOptions // Zone erasure parameters
	FontDirs  []string           // Extra font directories loaded on top of the system ones
	TextLayer bool               // Collect hidden-layer entries for searchable output
	Build     pdfbuild.Options   // PDF assembly settings
}

// DefaultOptions returns the pipeline settings used by the CLI.
func DefaultOptions() Options {
	return Options{
		DPI:   150,
		Fit:   render.DefaultFitOptions(),
		Erase: pixel.DefaultEraseOptions(),
		Build: pdfbuild.DefaultOptions(),
	}
}

// Engine holds the rasterized template and everything needed to stamp rows
// onto it. Base pages are never written to after construction, so one engine
// serves concurrent rows.
type Engine struct {
	cfg     *zone.Config
	mapping zone.Mapping // column name -> zone ids; nil means columns are zone ids
	dpi     float64
	pages   []*image.NRGBA
	fitter  *render.Fitter
	inpaint pixel.Inpainter
	opts    Options
}

// New rasterizes the template named by cfg.DocPath and builds an engine.
// The mapping translates recipient row columns to zone ids, one column to
// one or more zones; a nil mapping treats column names as zone ids directly.
func New(ctx context.Context, cfg *zone.Config, mapping zone.Mapping, opts Options) (*Engine, error) {
	if err := prepareConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.DocPath == "" {
		return nil, fmt.Errorf("config %q has no doc_path", cfg.TemplateID)
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions().DPI
	}

	r := raster.New()
	pages, err := r.Rasterize(ctx, cfg.DocPath, opts.DPI)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("template", cfg.TemplateID).
		Str("rasterizer", r.Name()).
		Int("pages", len(pages)).
		Float64("dpi", opts.DPI).
		Msg("template rasterized")

	return newEngine(cfg, mapping, pages, opts)
}

// NewFromImages builds an engine over pages that were already rendered at
// opts.DPI. The images are copied, so the caller keeps ownership.
func NewFromImages(cfg *zone.Config, mapping zone.Mapping, pages []*image.NRGBA, opts Options) (*Engine, error) {
	if err := prepareConfig(cfg); err != nil {
		return nil, err
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions().DPI
	}
	if len(pages) == 0 {
		return nil, &raster.DocumentError{Path: cfg.DocPath, Err: raster.ErrNoPages}
	}
	base := make([]*image.NRGBA, len(pages))
	for i, p := range pages {
		base[i] = imaging.Clone(p)
	}
	return newEngine(cfg, mapping, base, opts)
}

func newEngine(cfg *zone.Config, mapping zone.Mapping, pages []*image.NRGBA, opts Options) (*Engine, error) {
	fonts := render.NewFontCache()
	loaded := fonts.LoadSystemFonts()
	for _, dir := range opts.FontDirs {
		loaded += fonts.LoadDir(dir)
	}
	fitter := render.NewFitter(fonts, opts.Fit)
	inpaint := pixel.NewInpainter()

	for _, z := range cfg.Zones {
		if z.Page > len(pages) {
			log.Warn().
				Str("zone", z.ID).
				Int("page", z.Page).
				Int("pages", len(pages)).
				Msg("zone page outside document, zone will be skipped")
		}
	}
	log.Debug().
		Int("fonts", loaded).
		Str("shaper", fitter.ComplexShaperName()).
		Str("inpainter", inpaint.Name()).
		Msg("engine ready")

	return &Engine{
		cfg:     cfg,
		mapping: mapping,
		dpi:     opts.DPI,
		pages:   pages,
		fitter:  fitter,
		inpaint: inpaint,
		opts:    opts,
	}, nil
}

func prepareConfig(cfg *zone.Config) error {
	if cfg == nil {
		return fmt.Errorf("nil template config")
	}
	cfg.Normalize()
	return cfg.Validate()
}

// PageCount reports how many template pages the engine holds.
func (e *Engine) PageCount() int { return len(e.pages) }

// DPI reports the raster resolution.
func (e *Engine) DPI() float64 { return e.dpi }

// Config returns the template binding the engine was built with.
func (e *Engine) Config() *zone.Config { return e.cfg }

// Mapping returns the column routing the engine was built with, nil when
// columns are used as zone ids directly.
func (e *Engine) Mapping() zone.Mapping { return e.mapping }

// AppliedZone records what happened to one zone while stamping a row.
type AppliedZone struct {
	ZoneID   string
	Strategy string // Erase strategy used, or "none"
	SizePx   int    // Chosen text size in pixels; zero for QR and empty values
	Skipped  bool   // Geometry made the zone inert
}

// RowResult is the personalized output for a single recipient row.
type RowResult struct {
	Pages []*image.NRGBA
	Texts []pdfbuild.LayerText
	Zones []AppliedZone
}

// PersonalizeRow stamps one recipient row onto fresh copies of the template
// pages. Zones the row does not reference stay untouched. A reference to an
// unknown zone id fails the whole row; degenerate geometry only skips the
// zone.
func (e *Engine) PersonalizeRow(ctx context.Context, row map[string]string) (*RowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*image.NRGBA, len(e.pages))
	for i, p := range e.pages {
		out[i] = imaging.Clone(p)
	}
	res := &RowResult{Pages: out}

	for _, col := range e.orderedColumns(row) {
		for _, zoneID := range e.zoneIDsForColumn(col) {
			z, found := e.cfg.ZoneByID(zoneID)
			if !found {
				return nil, fmt.Errorf("column %q references zone %q: %w", col, zoneID, ErrZoneNotFound)
			}
			applied, err := e.applyZone(res, z, row[col])
			if err != nil {
				return nil, fmt.Errorf("zone %q: %w", z.ID, err)
			}
			res.Zones = append(res.Zones, applied)
		}
	}
	return res, nil
}

// applyZone erases one zone on the row's page copy and draws the value into
// it. All pixel edits stay inside the zone rectangle.
func (e *Engine) applyZone(res *RowResult, z *zone.Zone, value string) (AppliedZone, error) {
	applied := AppliedZone{ZoneID: z.ID, Strategy: "none"}

	pageIdx := z.Page - 1
	if pageIdx < 0 || pageIdx >= len(res.Pages) {
		log.Warn().Str("zone", z.ID).Int("page", z.Page).Err(ErrPageOutOfRange).Msg("skipping zone")
		applied.Skipped = true
		return applied, nil
	}
	page := res.Pages[pageIdx]
	w, h := page.Bounds().Dx(), page.Bounds().Dy()

	rect := zone.RectForZone(z, w, h, e.dpi)
	if !rect.Valid() {
		log.Warn().Str("zone", z.ID).Msg("zone rectangle is degenerate at this resolution, skipping")
		applied.Skipped = true
		return applied, nil
	}
	mask := rect.Mask(w, h)

	erased, strategy, err := pixel.EraseZone(page, mask, &z.Mask, e.inpaint, e.opts.Erase)
	if err != nil {
		return applied, fmt.Errorf("erase: %w", err)
	}
	applied.Strategy = strategy
	res.Pages[pageIdx] = erased

	value = strings.TrimSpace(render.NormalizeText(value))
	if value == "" {
		return applied, nil
	}

	pad := e.fitter.Options().Padding
	interiorW := rect.Width() - 2*pad
	interiorH := rect.Height() - 2*pad

	var buf *image.NRGBA
	switch z.Kind {
	case zone.KindQR:
		buf, err = render.RenderQR(value, interiorW, interiorH)
		if err != nil {
			log.Warn().Str("zone", z.ID).Err(err).Msg("qr render failed, leaving zone erased")
			return applied, nil
		}
	default:
		var sizePx int
		buf, sizePx, err = e.fitter.RenderZoneText(value, interiorW, interiorH, z.Text, e.dpi)
		if err != nil {
			return applied, fmt.Errorf("render text: %w", err)
		}
		applied.SizePx = sizePx
		if e.opts.TextLayer && buf != nil {
			res.Texts = append(res.Texts, pdfbuild.LayerText{
				Page:   z.Page,
				Text:   value,
				X:      z.X,
				Y:      z.Y,
				W:      z.W,
				H:      z.H,
				SizePt: float64(sizePx) * 72.0 / e.dpi,
			})
		}
	}
	if buf == nil {
		return applied, nil
	}

	res.Pages[pageIdx] = pixel.CompositeStrict(res.Pages[pageIdx], buf, rect, mask, pad)
	log.Debug().
		Str("zone", z.ID).
		Str("strategy", strategy).
		Int("size_px", applied.SizePx).
		Msg("zone applied")
	return applied, nil
}

// PersonalizeToFile personalizes one row and writes the assembled PDF to
// path.
func (e *Engine) PersonalizeToFile(ctx context.Context, row map[string]string, path string) error {
	res, err := e.PersonalizeRow(ctx, row)
	if err != nil {
		return err
	}
	buildOpts := e.opts.Build
	buildOpts.TextLayer = e.opts.TextLayer
	return pdfbuild.BuildToFile(path, res.Pages, e.dpi, res.Texts, buildOpts)
}

// orderedColumns returns the row's column names in deterministic order.
func (e *Engine) orderedColumns(row map[string]string) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// zoneIDsForColumn resolves a row column to the zones it populates through
// the mapping. Without a mapping, columns that name a configured zone map to
// themselves and everything else is ignored.
func (e *Engine) zoneIDsForColumn(col string) []string {
	if e.mapping != nil {
		return e.mapping.ZonesFor(col)
	}
	if _, ok := e.cfg.ZoneByID(col); ok {
		return []string{col}
	}
	return nil
}
