// Command presentpack evaluates polyomino packing feasibility: it
// loads a shape catalog and a list of rectangular regions, decides for
// each region whether its required tiles fit, and prints the number of
// regions that do. Results can additionally be written as a PDF layout
// report or an XLSX summary.
//
// Build with: go build ./cmd/presentpack
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"presentpack/internal/engine"
	"presentpack/internal/export"
	"presentpack/internal/importer"
	"presentpack/internal/model"
)

var (
	inputPath   = flag.String("input", "", "shapes and regions in native text notation (required)")
	regionsCSV  = flag.String("regions-csv", "", "additional regions from a CSV file")
	regionsXLSX = flag.String("regions-xlsx", "", "additional regions from an Excel file")
	budget      = flag.Duration("budget", model.DefaultSettings().TimeBudget, "per-region search budget")
	workers     = flag.Int("workers", runtime.NumCPU(), "concurrent region evaluations")
	pdfPath     = flag.String("pdf", "", "write a PDF layout report to this path")
	xlsxPath    = flag.String("xlsx", "", "write an XLSX summary to this path")
	verbose     = flag.Bool("v", false, "print a line per region")
	cpuProfile  = flag.Bool("cpuprofile", false, "write a CPU profile to the current directory")
)

func main() {
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if *inputPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -input flag")
	}

	imported := importer.ImportText(*inputPath)
	reportImport(*inputPath, imported)

	shapes := imported.Shapes
	regions := imported.Regions

	if *regionsCSV != "" {
		extra := importer.ImportRegionsCSV(*regionsCSV)
		reportImport(*regionsCSV, extra)
		regions = append(regions, extra.Regions...)
	}
	if *regionsXLSX != "" {
		extra := importer.ImportRegionsExcel(*regionsXLSX)
		reportImport(*regionsXLSX, extra)
		regions = append(regions, extra.Regions...)
	}

	if len(shapes) == 0 {
		return fmt.Errorf("%s: no shapes defined", *inputPath)
	}
	if len(regions) == 0 {
		return fmt.Errorf("no regions to evaluate")
	}

	solver := engine.New(model.Settings{
		TimeBudget: *budget,
		Workers:    *workers,
	})

	start := time.Now()
	result := solver.EvaluateAll(regions, shapes)

	if *verbose {
		for _, rr := range result.Results {
			fmt.Printf("%-24s %-12s resolved by %-14s in %s\n",
				rr.Region.Label(), rr.Outcome, rr.ResolvedBy, rr.Elapsed.Round(time.Microsecond))
		}
	}

	fmt.Printf("%d of %d regions fit (%s)\n", result.FitCount(), len(result.Results), time.Since(start).Round(time.Millisecond))

	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, result); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		fmt.Printf("wrote %s\n", *pdfPath)
	}
	if *xlsxPath != "" {
		if err := export.ExportXLSX(*xlsxPath, result, shapes); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		fmt.Printf("wrote %s\n", *xlsxPath)
	}

	return nil
}

// reportImport surfaces importer warnings and row-level errors on
// stderr. Whether the run can proceed is decided afterwards by what
// was actually imported.
func reportImport(path string, result importer.ImportResult) {
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "%s: error: %s\n", path, e)
	}
}
