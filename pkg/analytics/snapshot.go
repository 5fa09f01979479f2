// Package analytics defines the immutable summaries exchanged with the
// persistence and inpainting stages: the OCR snapshot per image and the
// mask fitting record per image.
package analytics

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scantools/bubble-review/pkg/geometry"
)

// RemovedBox is one removed text region: the cached image it belongs to,
// the recognized text and the tight box. It serializes as a
// [path, text, [x1,y1,x2,y2]] array.
type RemovedBox struct {
	Path string
	Text string
	Box  geometry.Box
}

// MarshalJSON encodes the triple in its array form.
func (r RemovedBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{r.Path, r.Text, r.Box})
}

// UnmarshalJSON decodes the [path, text, box] array form.
func (r *RemovedBox) UnmarshalJSON(data []byte) error {
	var parts [3]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("failed to parse removed box entry: %w", err)
	}
	if err := json.Unmarshal(parts[0], &r.Path); err != nil {
		return fmt.Errorf("failed to parse removed box path: %w", err)
	}
	if err := json.Unmarshal(parts[1], &r.Text); err != nil {
		return fmt.Errorf("failed to parse removed box text: %w", err)
	}
	if err := json.Unmarshal(parts[2], &r.Box); err != nil {
		return fmt.Errorf("failed to parse removed box coordinates: %w", err)
	}
	return nil
}

// Snapshot is the per-image OCR summary: how many boxes were processed,
// their sizes, and the regions that ended up removed. Once built it is
// treated as read-only; the review session works on its own copy.
type Snapshot struct {
	NumBoxes        int          `json:"num_boxes"`
	BoxSizesOCR     []int        `json:"box_sizes_ocr"`
	BoxSizesRemoved []int        `json:"box_sizes_removed"`
	RemovedBoxes    []RemovedBox `json:"removed_box_data"`
}

// NewSnapshot bundles the OCR analytics for one image. Nil slices are
// normalized to empty ones so the serialized form always carries arrays.
func NewSnapshot(numBoxes int, sizesOCR, sizesRemoved []int, removed []RemovedBox) Snapshot {
	if sizesOCR == nil {
		sizesOCR = []int{}
	}
	if sizesRemoved == nil {
		sizesRemoved = []int{}
	}
	if removed == nil {
		removed = []RemovedBox{}
	}
	return Snapshot{
		NumBoxes:        numBoxes,
		BoxSizesOCR:     sizesOCR,
		BoxSizesRemoved: sizesRemoved,
		RemovedBoxes:    removed,
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(
		s.NumBoxes,
		append([]int(nil), s.BoxSizesOCR...),
		append([]int(nil), s.BoxSizesRemoved...),
		append([]RemovedBox(nil), s.RemovedBoxes...),
	)
}

// LoadSnapshots reads a snapshot list from a JSON file.
func LoadSnapshots(path string) ([]Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analytics file: %w", err)
	}

	var snaps []Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("failed to parse analytics file: %w", err)
	}
	return snaps, nil
}

// SaveSnapshots writes a snapshot list to a JSON file.
func SaveSnapshots(path string, snaps []Snapshot) error {
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analytics: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	return nil
}
