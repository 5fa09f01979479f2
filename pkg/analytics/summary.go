package analytics

import (
	"gonum.org/v1/gonum/stat"
)

// SizeStats summarizes a list of box sizes in square pixels.
type SizeStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    int
	Max    int
}

// SummarizeSizes computes count, mean, sample standard deviation and range
// for a list of box sizes. An empty list yields zero stats.
func SummarizeSizes(sizes []int) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}

	values := make([]float64, len(sizes))
	minSize, maxSize := sizes[0], sizes[0]
	for i, s := range sizes {
		values[i] = float64(s)
		if s < minSize {
			minSize = s
		}
		if s > maxSize {
			maxSize = s
		}
	}

	stats := SizeStats{
		Count: len(sizes),
		Mean:  stat.Mean(values, nil),
		Min:   minSize,
		Max:   maxSize,
	}
	// A single sample has no spread
	if len(sizes) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats
}

// Report aggregates the snapshots of a whole run.
type Report struct {
	Images       int
	TotalBoxes   int
	RemovedBoxes int
	OCRSizes     SizeStats
	RemovedSizes SizeStats
}

// Summarize builds a report over the snapshots of a run.
func Summarize(snaps []Snapshot) Report {
	report := Report{Images: len(snaps)}

	var ocr, removed []int
	for _, s := range snaps {
		report.TotalBoxes += s.NumBoxes
		report.RemovedBoxes += len(s.RemovedBoxes)
		ocr = append(ocr, s.BoxSizesOCR...)
		removed = append(removed, s.BoxSizesRemoved...)
	}

	report.OCRSizes = SummarizeSizes(ocr)
	report.RemovedSizes = SummarizeSizes(removed)
	return report
}
