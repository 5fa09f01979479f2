package review

import (
	"image/color"

	"github.com/scantools/bubble-review/pkg/geometry"
)

// Stroke selects the outline style used to draw a bubble.
type Stroke int

const (
	StrokeSolid Stroke = iota
	StrokeDashed
)

// Outline colors keyed by review state.
var (
	colorNormal        = color.RGBA{0, 128, 0, 255}
	colorRemoved       = color.RGBA{128, 0, 0, 255}
	colorEdited        = color.RGBA{0, 0, 128, 255}
	colorEditedRemoved = color.RGBA{128, 0, 0, 255}
	colorNew           = color.RGBA{128, 128, 0, 255}
	colorHighlight     = color.RGBA{255, 128, 0, 255}
)

// StatusColor returns the outline color for a review state.
func StatusColor(status Status) color.RGBA {
	switch status {
	case StatusRemoved:
		return colorRemoved
	case StatusEdited:
		return colorEdited
	case StatusEditedRemoved:
		return colorEditedRemoved
	case StatusNew:
		return colorNew
	default:
		return colorNormal
	}
}

// StatusStroke returns the outline style for a review state. Removed
// bubbles are drawn dashed.
func StatusStroke(status Status) Stroke {
	if status.IsRemoved() {
		return StrokeDashed
	}
	return StrokeSolid
}

// RenderItem describes how one bubble should be drawn over the page image.
type RenderItem struct {
	Box      geometry.Box
	Color    color.RGBA
	Label    string
	Stroke   Stroke
	Selected bool
}

// RenderItems returns the draw list for the current records. The record at
// the selected row is drawn with the highlight color; pass a negative row
// when nothing is selected.
func (s *Session) RenderItems(selected int) []RenderItem {
	items := make([]RenderItem, 0, len(s.records))
	for i, r := range s.records {
		item := RenderItem{
			Box:    r.Box,
			Color:  StatusColor(r.Status),
			Label:  r.Label,
			Stroke: StatusStroke(r.Status),
		}
		if i == selected {
			item.Color = colorHighlight
			item.Selected = true
		}
		items = append(items, item)
	}
	return items
}

// Capabilities describes which review actions apply to a record.
type Capabilities struct {
	MoveUp   bool
	MoveDown bool
	Reset    bool
	Delete   bool
	Undelete bool
}

// Capabilities reports the actions available for the record at the given
// row.
func (s *Session) Capabilities(row int) Capabilities {
	s.mustRow(row)

	record := s.records[row]
	return Capabilities{
		MoveUp:   row > 0,
		MoveDown: row < len(s.records)-1,
		Reset:    record.Status.IsEdited(),
		Delete:   !record.Status.IsRemoved(),
		Undelete: record.Status.IsRemoved(),
	}
}
