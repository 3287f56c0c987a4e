// invite is a command-line tool for batch-personalizing PDF card templates.
//
// The tool rasterizes a template PDF once, erases the configured zones on a
// copy of the pages for every recipient, renders each recipient's values
// into the zones (fitted text or QR codes) and writes one personalized PDF
// per recipient. Erasure and rendering never touch pixels outside a zone,
// so the template artwork survives untouched.
//
// Configuration:
//
// The template binding is a YAML (or JSON) file describing the document and
// its zones:
//
//	template_id: "wedding-front"
//	doc_path: "template.pdf"
//	name_column: "નામ"
//	zones:
//	  - id: guest_name
//	    page: 1
//	    x: 120
//	    y: 260
//	    width: 350
//	    height: 60
//	    mask:
//	      enabled: true
//	      mode: auto
//	    text:
//	      font_family: "Noto Sans Gujarati"
//	      font_size: 21
//	      color: "#5a2a0c"
//
// When the CSV headers differ from the zone ids, a mapping file routes
// columns to zones. A column may feed several zones:
//
//	નામ: guest_name
//	table: [table_front, table_back]
//
// Usage:
//
//	invite -config template.yaml -recipients guests.csv [options]
//
// Required flags:
//
//	-config string      Path to the template zone config (YAML or JSON)
//	-recipients string  Path to the recipient list CSV
//
// Output options:
//
//	-output string      Directory for personalized PDFs (default "output")
//	-text-layer         Embed a hidden searchable text layer in each PDF
//
// Processing options:
//
//	-mapping string     YAML file mapping CSV columns to zone ids
//	-dpi float          Raster resolution (default 150)
//	-workers int        Concurrent recipients (default 1)
//	-font-dir string    Comma separated list of extra font directories
//	-limit int          Process only the first N rows
//	-preview-row int    Render a single row (1-based) to a temporary file
//	-dry-run            Print the output plan without rendering anything
//	-debug              Enable debug logging
//
// Examples:
//
// Personalize a guest list:
//
//	invite -config wedding.yaml -recipients guests.csv -output cards/
//
// Check naming before a large run:
//
//	invite -config wedding.yaml -recipients guests.csv -dry-run
//
// Render one card to verify the template:
//
//	invite -config wedding.yaml -recipients guests.csv -preview-row 1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MeettPaladiya/Invite/pkg/batch"
	"github.com/MeettPaladiya/Invite/pkg/invite"
	"github.com/MeettPaladiya/Invite/pkg/zone"
)

func main() {
	configPath := flag.String("config", "", "Path to the template zone config (YAML or JSON)")
	recipientsPath := flag.String("recipients", "", "Path to the recipient list CSV")
	outputDir := flag.String("output", "output", "Directory for personalized PDFs")
	mappingPath := flag.String("mapping", "", "YAML file mapping CSV columns to zone ids")
	dpi := flag.Float64("dpi", 150, "Raster resolution in dots per inch")
	workers := flag.Int("workers", 1, "Concurrent recipients")
	fontDirs := flag.String("font-dir", "", "Comma separated list of extra font directories")
	textLayer := flag.Bool("text-layer", false, "Embed a hidden searchable text layer")
	limit := flag.Int("limit", 0, "Process only the first N rows (0 = all)")
	previewRow := flag.Int("preview-row", 0, "Render a single row (1-based) to a temporary file")
	dryRun := flag.Bool("dry-run", false, "Print the output plan without rendering")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	setupLogging(*debug)

	if *configPath == "" {
		fmt.Println("Error: Must provide -config path")
		os.Exit(1)
	}
	if *recipientsPath == "" {
		fmt.Println("Error: Must provide -recipients path")
		os.Exit(1)
	}

	cfg, err := zone.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load template config: %v\n", err)
		os.Exit(1)
	}

	rows, err := batch.LoadRowsCSV(*recipientsPath)
	if err != nil {
		fmt.Printf("Failed to load recipients: %v\n", err)
		os.Exit(1)
	}
	if *limit > 0 && len(rows) > *limit {
		rows = rows[:*limit]
	}
	if len(rows) == 0 {
		fmt.Println("Recipient list has no rows, nothing to do")
		os.Exit(1)
	}

	mapping, err := loadMapping(*mappingPath)
	if err != nil {
		fmt.Printf("Failed to load mapping: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		printPlan(cfg, mapping, rows)
		return
	}

	opts := invite.DefaultOptions()
	opts.DPI = *dpi
	opts.TextLayer = *textLayer
	if *fontDirs != "" {
		for _, dir := range strings.Split(*fontDirs, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				opts.FontDirs = append(opts.FontDirs, dir)
			}
		}
	}

	ctx := context.Background()
	engine, err := invite.New(ctx, cfg, mapping, opts)
	if err != nil {
		fmt.Printf("Failed to prepare template: %v\n", err)
		os.Exit(1)
	}

	processor := batch.NewProcessor(engine, batch.Options{
		OutputDir: *outputDir,
		Workers:   *workers,
	})

	if *previewRow > 0 {
		if *previewRow > len(rows) {
			fmt.Printf("Row %d is out of range, the list has %d rows\n", *previewRow, len(rows))
			os.Exit(1)
		}
		path, err := processor.PreviewRow(ctx, rows[*previewRow-1])
		if err != nil {
			fmt.Printf("Preview failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Preview written to %s\n", path)
		return
	}

	summary, err := processor.Run(ctx, rows)
	if err != nil {
		fmt.Printf("Batch run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Produced %d of %d PDFs in %s\n", summary.Produced, summary.Total, *outputDir)
	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("  failed: %v\n", r.Err)
		}
	}
	if summary.Produced == 0 {
		os.Exit(1)
	}
}

// setupLogging routes structured logs to a human-readable console writer.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// loadMapping reads the optional column to zone mapping file. A mapping
// value is either one zone id or a list of ids.
func loadMapping(path string) (zone.Mapping, error) {
	if path == "" {
		return nil, nil
	}
	return zone.LoadMapping(path)
}

// printPlan shows the naming plan the batch would use.
func printPlan(cfg *zone.Config, mapping zone.Mapping, rows []batch.Row) {
	entries := batch.Plan(cfg, mapping, rows)
	fmt.Printf("Output plan for %d recipients:\n", len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "(no name)"
		}
		fmt.Printf("  %4d  %-30s %s\n", e.Index+1, name, e.File)
	}
}
