package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/scantools/bubble-review/pkg/geometry"
)

// BoxStat couples a box with its mask fitting outcome: the standard
// deviation of the chosen mask's border, whether fitting failed, and the
// mask thickness. Thickness is nil when the box mask was chosen. It
// serializes as [[x1,y1,x2,y2], std_deviation, failed, thickness|null].
type BoxStat struct {
	Box          geometry.Box
	StdDeviation float64
	Failed       bool
	Thickness    *int
}

// MarshalJSON encodes the stat entry in its array form.
func (s BoxStat) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]interface{}{s.Box, s.StdDeviation, s.Failed, s.Thickness})
}

// UnmarshalJSON decodes the [box, deviation, failed, thickness] array form.
func (s *BoxStat) UnmarshalJSON(data []byte) error {
	var parts [4]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("failed to parse box stats entry: %w", err)
	}
	if err := json.Unmarshal(parts[0], &s.Box); err != nil {
		return fmt.Errorf("failed to parse box stats coordinates: %w", err)
	}
	if err := json.Unmarshal(parts[1], &s.StdDeviation); err != nil {
		return fmt.Errorf("failed to parse box stats deviation: %w", err)
	}
	if err := json.Unmarshal(parts[2], &s.Failed); err != nil {
		return fmt.Errorf("failed to parse box stats failed flag: %w", err)
	}
	if err := json.Unmarshal(parts[3], &s.Thickness); err != nil {
		return fmt.Errorf("failed to parse box stats thickness: %w", err)
	}
	return nil
}

// MaskRecord carries everything the denoising stage needs for one image:
// the involved file paths, the scale of the original image relative to the
// base image, and the per-box mask fitting stats.
type MaskRecord struct {
	OriginalPath  string    `json:"original_path"`
	BaseImagePath string    `json:"base_image_path"`
	MaskPath      string    `json:"mask_path"`
	Scale         float64   `json:"scale"`
	BoxStats      []BoxStat `json:"boxes_with_stats"`
}

// MaskRecordFromJSON decodes a mask record previously produced by ToJSON.
func MaskRecordFromJSON(data []byte) (*MaskRecord, error) {
	var m MaskRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mask record: %w", err)
	}
	return &m, nil
}

// ToJSON encodes the mask record in the persisted field layout.
func (m *MaskRecord) ToJSON() ([]byte, error) {
	shadow := *m
	if shadow.BoxStats == nil {
		shadow.BoxStats = []BoxStat{}
	}

	data, err := json.MarshalIndent(&shadow, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mask record: %w", err)
	}
	return data, nil
}

// OriginalBoxes returns the stat boxes scaled up to the original image
// resolution.
func (m *MaskRecord) OriginalBoxes() []geometry.Box {
	boxes := make([]geometry.Box, len(m.BoxStats))
	for i, s := range m.BoxStats {
		boxes[i] = s.Box.Scale(m.Scale)
	}
	return boxes
}
