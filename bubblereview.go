// Package bubblereview turns raw text detections on scanned pages into
// clean, reviewable speech bubbles.
//
// This package combines a box geometry engine with a review state machine:
// detection boxes are deduplicated, padded and merged into the box
// collections a masker needs, and the OCR results for the removed boxes are
// expanded into an editable annotation set a human reviewer can work
// through.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		bubblereview "github.com/scantools/bubble-review"
//		"github.com/scantools/bubble-review/pkg/geometry"
//		"github.com/scantools/bubble-review/pkg/page"
//	)
//
//	func main() {
//		engine := bubblereview.New()
//
//		// Build the box collections for one page
//		pd := page.New("page_0001.png", "", "originals/page_0001.jpg", 1.0, []geometry.Box{
//			{X1: 10, Y1: 10, X2: 110, Y2: 60},
//			{X1: 40, Y1: 30, X2: 150, Y2: 90},
//		})
//		if err := engine.ProcessPage(pd); err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%d bubbles after merging\n", len(pd.Boxes))
//
//		// Review the OCR results for the page
//		snaps, err := engine.LoadAnalytics("analytics.json")
//		if err != nil {
//			log.Fatal(err)
//		}
//		sessions := engine.NewReview(snaps, []string{"page_0001.png"})
//		sessions[0].EditText(0, "Corrected text")
//		if err := engine.SaveAnalytics("analytics.json", engine.FinishReview(sessions)); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Geometry (pkg/geometry): Box arithmetic, padding and overlap tests
// 2. Page (pkg/page): Per-page box collections and overlap resolution
// 3. Analytics (pkg/analytics): OCR snapshots, mask records and reports
// 4. Review (pkg/review): The editable annotation set and its state machine
//
// Features:
//
//   - Center-based deduplication of doubled-up detections
//   - Threshold-based merging of grown boxes into mask regions
//   - Image-size aware padding that never leaves the canvas
//   - Five-state review workflow with per-record and whole-image reset
//   - JSON persistence compatible across runs
//   - CLI tool for batch processing and report generation
//
// The geometry pipeline runs once per page and derives three collections
// from the tight detection boxes: extended boxes for mask growth, merged
// extended boxes for overlap-free masking, and reference boxes for cutting
// out context around each bubble. The review layer never touches the
// geometry again; it works on the analytics snapshot produced after
// masking.
package bubblereview

import (
	"fmt"
	"os"

	"github.com/scantools/bubble-review/internal/config"
	"github.com/scantools/bubble-review/internal/logging"
	"github.com/scantools/bubble-review/internal/utils"
	"github.com/scantools/bubble-review/pkg/analytics"
	"github.com/scantools/bubble-review/pkg/page"
	"github.com/scantools/bubble-review/pkg/review"
)

// Version of the bubble review library
const Version = "1.0.0"

// Engine provides a high-level interface for page processing and review
type Engine struct {
	config *config.Config
	logger *logging.Logger
}

// New creates a new Engine with default configuration
func New() *Engine {
	return NewWithConfig(config.Default())
}

// NewWithConfig creates a new Engine with custom configuration
func NewWithConfig(cfg *config.Config) *Engine {
	return &Engine{
		config: cfg,
		logger: logging.New("engine"),
	}
}

// ProcessPage runs the geometry pipeline on a page in place. The tight
// boxes are deduplicated and padded, then the extended, merged extended and
// reference collections are derived from them.
func (e *Engine) ProcessPage(pd *page.PageData) error {
	boxes := e.config.Boxes

	pd.ResolveTotalOverlaps()

	if err := pd.Grow(boxes.InitialPadding, page.KindTight); err != nil {
		return fmt.Errorf("failed to grow boxes: %w", err)
	}
	if err := pd.RightPad(boxes.InitialRightPadding, page.KindTight); err != nil {
		return fmt.Errorf("failed to pad boxes: %w", err)
	}

	pd.ExtendedBoxes = append(pd.ExtendedBoxes[:0], pd.Boxes...)
	if err := pd.Grow(boxes.ExtendedPadding, page.KindExtended); err != nil {
		return fmt.Errorf("failed to grow extended boxes: %w", err)
	}

	pd.ResolveOverlaps(page.KindExtended, page.KindMergedExtended, boxes.OverlapThreshold)

	pd.ReferenceBoxes = append(pd.ReferenceBoxes[:0], pd.MergedExtendedBoxes...)
	if err := pd.Grow(boxes.ReferencePadding, page.KindReference); err != nil {
		return fmt.Errorf("failed to grow reference boxes: %w", err)
	}

	return nil
}

// ProcessPageFile is a convenience function that loads a page record,
// processes it, and writes the result
func (e *Engine) ProcessPageFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read page file: %w", err)
	}

	pd, err := page.FromJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse page file: %w", err)
	}

	if !utils.FileExists(pd.ImagePath) {
		e.logger.Warn("page image not found, size probe will fail", "path", pd.ImagePath)
	}

	if err := e.ProcessPage(pd); err != nil {
		return fmt.Errorf("failed to process %s: %w", inputPath, err)
	}

	out, err := pd.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	if err := utils.EnsureDir(filepathDir(outputPath)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write page file: %w", err)
	}

	return nil
}

// NewReview creates one review session per snapshot. The image paths are
// the pages being reviewed; a count mismatch is logged and review proceeds
// with the snapshots alone.
func (e *Engine) NewReview(snaps []analytics.Snapshot, imagePaths []string) []*review.Session {
	if len(snaps) != len(imagePaths) {
		e.logger.Error("images and analytics don't match up", "images", len(imagePaths), "analytics", len(snaps))
	}

	sessions := make([]*review.Session, 0, len(snaps))
	for _, snap := range snaps {
		sessions = append(sessions, review.NewSessionWithConfig(snap, review.Config{
			MinBubbleArea: e.config.Review.MinBubbleArea,
		}))
	}
	return sessions
}

// FinishReview collapses every session back into a snapshot for
// downstream masking.
func (e *Engine) FinishReview(sessions []*review.Session) []analytics.Snapshot {
	snaps := make([]analytics.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Collapse())
	}
	return snaps
}

// LoadAnalytics loads a snapshot list from a JSON file
func (e *Engine) LoadAnalytics(path string) ([]analytics.Snapshot, error) {
	return analytics.LoadSnapshots(path)
}

// SaveAnalytics saves a snapshot list to a JSON file
func (e *Engine) SaveAnalytics(path string, snaps []analytics.Snapshot) error {
	return analytics.SaveSnapshots(path, snaps)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

// filepathDir extracts the directory part of a path
func filepathDir(path string) string {
	dir := "."
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			dir = path[:i]
			break
		}
	}
	return dir
}
