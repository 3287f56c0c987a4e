// Package batch drives a personalization engine across a whole recipient
// list.
//
// Key Features:
//   - Row-isolated failures: one bad recipient never stops the run
//   - Deterministic output naming with sanitization, duplicate suffixes and
//     positional fallbacks for nameless rows
//   - Optional worker pool for concurrent rows over one shared engine
//   - CSV loading with header-driven columns
//   - Single-row preview through the identical pipeline, and a dry-run
//     plan of the output names without rendering anything
//
// Main Functions:
//   - NewProcessor: bind an engine to batch options
//   - Processor.Run: personalize every row and write the output PDFs
//   - Processor.PreviewRow: personalize one row outside the batch output
//   - Processor.Plan: compute the output plan without rendering
//   - LoadRowsCSV: read a recipient list from a CSV file
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/MeettPaladiya/Invite/pkg/invite"
	"github.com/MeettPaladiya/Invite/pkg/render"
	"github.com/MeettPaladiya/Invite/pkg/zone"
)

// Row is one recipient record. Columns preserves the source header order
// so name derivation can scan it deterministically.
type Row struct {
	Columns []string
	Values  map[string]string
}

// Get returns the trimmed value of a column.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Values[col])
}

// RowError wraps a failure while personalizing a single row.
type RowError struct {
	Index int    // 0-based position in the batch
	Name  string // Derived recipient name, may be empty
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Result records the outcome for one row.
type Result struct {
	Index int
	Name  string
	Path  string // Written output file, empty on failure
	Err   error
}

// Summary aggregates a batch run.
type Summary struct {
	Total    int
	Produced int
	Failed   int
	Results  []Result
}

// Options control a batch run.
type Options struct {
	OutputDir string // Directory for the personalized PDFs
	Workers   int    // Concurrent rows; values below 2 run sequentially
}

// Processor runs recipient rows through one engine.
type Processor struct {
	eng  *invite.Engine
	opts Options
}

// NewProcessor binds an engine to batch options.
func NewProcessor(eng *invite.Engine, opts Options) *Processor {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Processor{eng: eng, opts: opts}
}

// Run personalizes every row and writes one PDF per successful row. Row
// failures are recorded in the summary and do not interrupt the batch; the
// returned error is reserved for batch-level problems such as an unusable
// output directory or cancellation.
func (p *Processor) Run(ctx context.Context, rows []Row) (*Summary, error) {
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	plan := planFilenames(p.eng.Config(), p.eng.Mapping(), rows)
	summary := &Summary{
		Total:   len(rows),
		Results: make([]Result, len(rows)),
	}

	if p.opts.Workers > 1 {
		if err := p.runParallel(ctx, rows, plan, summary); err != nil {
			return summary, err
		}
	} else {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.Results[i] = p.processRow(ctx, i, row, plan[i])
		}
	}

	for _, r := range summary.Results {
		if r.Err != nil {
			summary.Failed++
		} else if r.Path != "" {
			summary.Produced++
		}
	}
	log.Info().
		Int("total", summary.Total).
		Int("produced", summary.Produced).
		Int("failed", summary.Failed).
		Msg("batch finished")
	return summary, nil
}

func (p *Processor) runParallel(ctx context.Context, rows []Row, plan []plannedRow, summary *Summary) error {
	sem := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, row Row) {
			defer wg.Done()
			defer func() { <-sem }()
			// Rows write to distinct summary slots, no lock needed.
			summary.Results[i] = p.processRow(ctx, i, row, plan[i])
		}(i, row)
	}
	wg.Wait()
	return ctx.Err()
}

func (p *Processor) processRow(ctx context.Context, index int, row Row, plan plannedRow) Result {
	res := Result{Index: index, Name: plan.name}
	path := filepath.Join(p.opts.OutputDir, plan.file)

	if err := p.eng.PersonalizeToFile(ctx, row.Values, path); err != nil {
		rowErr := &RowError{Index: index, Name: plan.name, Err: err}
		log.Warn().Err(rowErr).Msg("row failed")
		res.Err = rowErr
		return res
	}
	res.Path = path
	log.Info().Int("row", index+1).Str("name", plan.name).Str("file", plan.file).Msg("row produced")
	return res
}

// PreviewRow personalizes exactly one row through the same per-row pipeline
// as Run and writes the PDF to a fresh temporary directory, leaving the
// batch output directory untouched. Unlike Run, a row failure comes back as
// the error. The caller owns the returned file.
func (p *Processor) PreviewRow(ctx context.Context, row Row) (string, error) {
	dir, err := os.MkdirTemp("", "invite-preview-")
	if err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	plan := planFilenames(p.eng.Config(), p.eng.Mapping(), []Row{row})[0]
	path := filepath.Join(dir, plan.file)

	if err := p.eng.PersonalizeToFile(ctx, row.Values, path); err != nil {
		os.RemoveAll(dir)
		return "", &RowError{Index: 0, Name: plan.name, Err: err}
	}
	log.Info().Str("name", plan.name).Str("file", path).Msg("preview produced")
	return path, nil
}

// PlanEntry is one line of the dry-run output plan.
type PlanEntry struct {
	Index int
	Name  string
	File  string
}

// Plan computes the output plan for the rows without rendering anything.
func (p *Processor) Plan(rows []Row) []PlanEntry {
	return Plan(p.eng.Config(), p.eng.Mapping(), rows)
}

// Plan computes the output plan straight from a template config, without an
// engine. Used for dry runs where rasterizing would be wasted work.
func Plan(cfg *zone.Config, mapping zone.Mapping, rows []Row) []PlanEntry {
	plan := planFilenames(cfg, mapping, rows)
	out := make([]PlanEntry, len(plan))
	for i, pl := range plan {
		out[i] = PlanEntry{Index: i, Name: pl.name, File: pl.file}
	}
	return out
}

type plannedRow struct {
	name string
	file string
}

// planFilenames derives every row's output name up front, sequentially, so
// duplicate handling stays deterministic regardless of worker count. Derived
// names are NFC-normalized before sanitization, so canonically equivalent
// spellings land on the same duplicate suffix.
func planFilenames(cfg *zone.Config, mapping zone.Mapping, rows []Row) []plannedRow {
	seen := make(map[string]int, len(rows))
	plan := make([]plannedRow, len(rows))

	for i, row := range rows {
		name := render.NormalizeText(DeriveName(row, cfg.NameColumn, mapping))
		base := SanitizeFilename(name)
		if base == "" {
			base = fmt.Sprintf("guest_%d", i+1)
		}
		file := applyTemplate(cfg.OutputTemplate, base)
		if n := seen[strings.ToLower(file)]; n > 0 {
			seen[strings.ToLower(file)] = n + 1
			file = applyTemplate(cfg.OutputTemplate, fmt.Sprintf("%s_%d", base, n+1))
		} else {
			seen[strings.ToLower(file)] = 1
		}
		plan[i] = plannedRow{name: name, file: file}
	}
	return plan
}

// applyTemplate expands {name} in the output template and guarantees a .pdf
// extension.
func applyTemplate(tmpl, name string) string {
	if tmpl == "" {
		tmpl = "{name}.pdf"
	}
	file := strings.ReplaceAll(tmpl, "{name}", name)
	if !strings.HasSuffix(strings.ToLower(file), ".pdf") {
		file += ".pdf"
	}
	return file
}
