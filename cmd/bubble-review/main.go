package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	bubblereview "github.com/scantools/bubble-review"
	"github.com/scantools/bubble-review/internal/config"
	"github.com/scantools/bubble-review/internal/utils"
	"github.com/scantools/bubble-review/pkg/analytics"
)

func main() {
	var mode, in, outDir, configPath, analyticsPath, imagesDir string

	flag.StringVar(&mode, "mode", "process", "mode to run: process|inspect|report")
	flag.StringVar(&in, "in", "", "input page JSON file or directory (process mode)")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.StringVar(&analyticsPath, "analytics", "", "analytics JSON file (inspect and report modes)")
	flag.StringVar(&imagesDir, "images", "", "directory of page images (inspect mode)")
	flag.Parse()

	// A .env file can provide BUBBLE_REVIEW_CONFIG for local runs
	_ = godotenv.Load()

	cfg := loadConfig(configPath)
	if outDir == "" {
		outDir = cfg.Output.OutputDir
	}

	engine := bubblereview.NewWithConfig(cfg)

	switch mode {
	case "process":
		if in == "" {
			usage()
		}
		runProcess(engine, in, outDir)
	case "inspect":
		if analyticsPath == "" {
			usage()
		}
		runInspect(engine, analyticsPath, imagesDir)
	case "report":
		if analyticsPath == "" {
			usage()
		}
		runReport(engine, analyticsPath)
	default:
		log.Fatalf("Unknown mode: %s (use 'process', 'inspect' or 'report')", mode)
	}
}

func usage() {
	log.Fatalf("usage: %s -mode process|inspect|report [-in pages/] [-analytics analytics.json] [-images pages/] [-out outdir] [-config config.json]",
		filepath.Base(os.Args[0]))
}

func loadConfig(configPath string) *config.Config {
	if configPath == "" {
		configPath = os.Getenv("BUBBLE_REVIEW_CONFIG")
	}
	if configPath == "" && utils.FileExists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

// runProcess runs the geometry pipeline over one page file or every page
// file in a directory.
func runProcess(engine *bubblereview.Engine, in, outDir string) {
	files := []string{in}
	if utils.DirExists(in) {
		var err error
		files, err = utils.ListJSONFiles(in)
		if err != nil {
			log.Fatal(err)
		}
		if len(files) == 0 {
			log.Fatalf("No page files found in %s", in)
		}
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	for _, file := range files {
		outPath := utils.GenerateOutputFilename(file, outDir, "", "_boxes", "json")
		if err := engine.ProcessPageFile(file, outPath); err != nil {
			log.Printf("process %s failed: %v", file, err)
			continue
		}
		log.Printf("wrote %s", outPath)
	}
}

// runInspect prints the review table each page would open with.
func runInspect(engine *bubblereview.Engine, analyticsPath, imagesDir string) {
	snaps, err := engine.LoadAnalytics(analyticsPath)
	if err != nil {
		log.Fatal(err)
	}

	var imagePaths []string
	if imagesDir != "" {
		imagePaths, err = utils.ListImageFiles(imagesDir)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		// Without images the paths recorded in the analytics stand in
		for _, snap := range snaps {
			if len(snap.RemovedBoxes) > 0 {
				imagePaths = append(imagePaths, snap.RemovedBoxes[0].Path)
			} else {
				imagePaths = append(imagePaths, "")
			}
		}
	}

	sessions := engine.NewReview(snaps, imagePaths)
	for i, session := range sessions {
		fmt.Printf("page %d: %d bubbles (session %s)\n", i+1, session.Len(), session.ID())
		for _, record := range session.Records() {
			fmt.Printf("  %-6s %-14s %-20s %s\n", record.Label, record.Status, record.Box, record.Text)
		}
	}
}

// runReport prints aggregate box statistics for a finished run.
func runReport(engine *bubblereview.Engine, analyticsPath string) {
	snaps, err := engine.LoadAnalytics(analyticsPath)
	if err != nil {
		log.Fatal(err)
	}

	report := analytics.Summarize(snaps)
	fmt.Printf("images:        %d\n", report.Images)
	fmt.Printf("boxes:         %d\n", report.TotalBoxes)
	fmt.Printf("removed:       %d\n", report.RemovedBoxes)
	printSizes("ocr sizes", report.OCRSizes)
	printSizes("removed sizes", report.RemovedSizes)
}

func printSizes(name string, stats analytics.SizeStats) {
	if stats.Count == 0 {
		fmt.Printf("%-14s none\n", name+":")
		return
	}
	fmt.Printf("%-14s mean %.1f sd %.1f (min %d, max %d, n=%d)\n",
		name+":", stats.Mean, stats.StdDev, stats.Min, stats.Max, stats.Count)
}
