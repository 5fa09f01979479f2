package review

import (
	"strconv"

	"github.com/scantools/bubble-review/pkg/analytics"
	"github.com/scantools/bubble-review/pkg/geometry"
)

// Record is one reviewable bubble: the OCR result for a single box together
// with its review state. The label identifies the record across reordering
// and is never changed by edits.
type Record struct {
	Path   string
	Text   string
	Box    geometry.Box
	Label  string
	Status Status
}

// Expand turns a snapshot's removed-box list into editable records. Records
// start out Normal and are labeled with their 1-based position in the
// snapshot.
func Expand(snap analytics.Snapshot) []*Record {
	records := make([]*Record, 0, len(snap.RemovedBoxes))
	for i, rb := range snap.RemovedBoxes {
		records = append(records, &Record{
			Path:   rb.Path,
			Text:   rb.Text,
			Box:    rb.Box,
			Label:  strconv.Itoa(i + 1),
			Status: StatusNormal,
		})
	}
	return records
}

// Collapse folds records back into a snapshot, dropping the ones marked
// Removed. Records in any other state are kept, including edited ones that
// were later discarded. The size histograms only exist at detection time and
// are emitted empty.
func Collapse(records []*Record) analytics.Snapshot {
	removed := make([]analytics.RemovedBox, 0, len(records))
	for _, r := range records {
		if r.Status == StatusRemoved {
			continue
		}
		removed = append(removed, analytics.RemovedBox{Path: r.Path, Text: r.Text, Box: r.Box})
	}
	return analytics.NewSnapshot(len(removed), nil, nil, removed)
}
