// zonedetect is a command-line tool that suggests personalization zones for
// a PDF template.
//
// It rasterizes the template, looks for placeholder blocks (sample names and
// text the designer left where recipient content goes) and prints a starting
// zone config in YAML. The output is meant to be hand-tuned: adjust the
// rectangles, pick fonts and colors, then feed the file to the invite tool.
//
// Usage:
//
//	zonedetect -pdf template.pdf [options]
//
// Required flags:
//
//	-pdf string     Path to the template PDF
//
// Options:
//
//	-output string       Write the suggested config to this file instead of stdout
//	-template-id string  Template identifier in the config (default: PDF basename)
//	-dpi float           Detection resolution (default 150)
//	-max int             Maximum suggested zones per page (default 10)
//	-debug               Enable debug logging
//
// Example:
//
//	zonedetect -pdf wedding.pdf -output wedding.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/MeettPaladiya/Invite/pkg/raster"
	"github.com/MeettPaladiya/Invite/pkg/zone"
	"github.com/MeettPaladiya/Invite/pkg/zonedetect"
)

func main() {
	pdfPath := flag.String("pdf", "", "Path to the template PDF")
	outputPath := flag.String("output", "", "Write the suggested config to this file instead of stdout")
	templateID := flag.String("template-id", "", "Template identifier in the config")
	dpi := flag.Float64("dpi", 150, "Detection resolution in dots per inch")
	maxZones := flag.Int("max", 10, "Maximum suggested zones per page")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *pdfPath == "" {
		fmt.Println("Error: Must provide -pdf path")
		os.Exit(1)
	}

	pages, err := raster.New().Rasterize(context.Background(), *pdfPath, *dpi)
	if err != nil {
		fmt.Printf("Failed to rasterize template: %v\n", err)
		os.Exit(1)
	}

	opts := zonedetect.DefaultOptions()
	if *maxZones > 0 {
		opts.MaxZones = *maxZones
	}
	zones := zonedetect.Suggest(pages, *dpi, opts)
	if len(zones) == 0 {
		fmt.Println("No placeholder blocks found; the template may be blank or purely decorative")
		os.Exit(1)
	}

	id := *templateID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(*pdfPath), filepath.Ext(*pdfPath))
	}
	cfg := zone.Config{
		TemplateID: id,
		DocPath:    *pdfPath,
		Zones:      zones,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		fmt.Printf("Failed to serialize config: %v\n", err)
		os.Exit(1)
	}

	if *outputPath == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Printf("Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Suggested %d zones, config written to %s\n", len(zones), *outputPath)
}
