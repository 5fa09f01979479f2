// Package page holds the per-page box collections produced by text
// detection and the geometry operations that shape them for masking.
package page

import (
	"encoding/json"
	"fmt"

	"github.com/scantools/bubble-review/pkg/geometry"
)

// BoxKind selects one of the four box collections of a PageData.
type BoxKind int

// The four box collections, in pipeline order. Tight boxes fit the detected
// text closely, extended boxes add masking headroom, merged-extended boxes
// resolve mask conflicts between neighbors, and reference boxes give the
// mask room to grow during fitting analysis.
const (
	KindTight BoxKind = iota
	KindExtended
	KindMergedExtended
	KindReference
)

// String returns the kind name as used in log output.
func (k BoxKind) String() string {
	switch k {
	case KindTight:
		return "tight"
	case KindExtended:
		return "extended"
	case KindMergedExtended:
		return "merged_extended"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("BoxKind(%d)", int(k))
	}
}

// PageData is the per-page record exchanged with the detection stage. It is
// built once from model output, mutated in place by the growth and overlap
// operations, and persisted between pipeline stages.
type PageData struct {
	ImagePath           string         `json:"image_path"`
	MaskPath            string         `json:"mask_path"`
	OriginalPath        string         `json:"original_path"`
	Scale               float64        `json:"scale"`
	Boxes               []geometry.Box `json:"boxes"`
	ExtendedBoxes       []geometry.Box `json:"extended_boxes"`
	MergedExtendedBoxes []geometry.Box `json:"merged_extended_boxes"`
	ReferenceBoxes      []geometry.Box `json:"reference_boxes"`

	// imageSize caches the decoded size for the life of the value. The page
	// image is never rewritten during this pipeline stage, so the staleness
	// hazard of keeping the first answer is accepted.
	imageSize *geometry.Size
}

// New creates a page record with the tight boxes as produced by the
// detection stage and the derived collections empty.
func New(imagePath, maskPath, originalPath string, scale float64, boxes []geometry.Box) *PageData {
	return &PageData{
		ImagePath:    imagePath,
		MaskPath:     maskPath,
		OriginalPath: originalPath,
		Scale:        scale,
		Boxes:        boxes,
	}
}

// FromJSON decodes a page record previously produced by ToJSON.
func FromJSON(data []byte) (*PageData, error) {
	var p PageData
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse page record: %w", err)
	}
	return &p, nil
}

// ToJSON encodes the page record in the persisted field layout. Empty box
// collections are written as empty arrays, never null.
func (p *PageData) ToJSON() ([]byte, error) {
	shadow := *p
	for _, kind := range []BoxKind{KindTight, KindExtended, KindMergedExtended, KindReference} {
		boxes := shadow.BoxesOf(kind)
		if *boxes == nil {
			*boxes = []geometry.Box{}
		}
	}

	data, err := json.MarshalIndent(&shadow, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page record: %w", err)
	}
	return data, nil
}

// BoxesOf returns the mutable collection of the given kind. Selecting an
// unknown kind is a programming error and panics.
func (p *PageData) BoxesOf(kind BoxKind) *[]geometry.Box {
	switch kind {
	case KindTight:
		return &p.Boxes
	case KindExtended:
		return &p.ExtendedBoxes
	case KindMergedExtended:
		return &p.MergedExtendedBoxes
	case KindReference:
		return &p.ReferenceBoxes
	default:
		panic(fmt.Sprintf("invalid box kind: %d", int(kind)))
	}
}

// Grow pads every box of the given kind by padding pixels on all four
// sides, clamped to the image bounds.
func (p *PageData) Grow(padding int, kind BoxKind) error {
	size, err := p.ImageSize()
	if err != nil {
		return fmt.Errorf("failed to determine image size: %w", err)
	}

	boxes := *p.BoxesOf(kind)
	for i, box := range boxes {
		boxes[i] = box.Pad(padding, size)
	}
	return nil
}

// RightPad pads every box of the given kind by padding pixels on the right
// edge only, clamped to the image bounds.
func (p *PageData) RightPad(padding int, kind BoxKind) error {
	size, err := p.ImageSize()
	if err != nil {
		return fmt.Errorf("failed to determine image size: %w", err)
	}

	boxes := *p.BoxesOf(kind)
	for i, box := range boxes {
		boxes[i] = box.RightPad(padding, size)
	}
	return nil
}
