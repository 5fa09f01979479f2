// Package geometry provides the integer box arithmetic shared by the page
// pipeline and the review session.
package geometry

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned rectangle in integer pixel coordinates, where
// (X1, Y1) is the top left corner and (X2, Y2) the bottom right corner.
// Boxes are immutable values: every operation returns a new Box. Derived
// quantities assume a valid rectangle; an inverted or degenerate box gives
// undefined results rather than an error.
type Box struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Size is the pixel size of an image canvas, used as the clamp bound for
// padding operations.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// NewBox returns a box with the given corner coordinates.
func NewBox(x1, y1, x2, y2 int) Box {
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Area returns the box area in square pixels.
func (b Box) Area() int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Center returns the center point of the box, using integer division.
func (b Box) Center() (x, y int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Contains reports whether the point lies inside the box, inclusive on all
// four edges.
func (b Box) Contains(x, y int) bool {
	return b.X1 <= x && x <= b.X2 && b.Y1 <= y && y <= b.Y2
}

// Merge returns the bounding box of both boxes: the minimum of the top left
// corners and the maximum of the bottom right corners.
func (b Box) Merge(other Box) Box {
	return Box{
		X1: min(b.X1, other.X1),
		Y1: min(b.Y1, other.Y1),
		X2: max(b.X2, other.X2),
		Y2: max(b.Y2, other.Y2),
	}
}

// Overlaps reports whether more than threshold percent (0-100) of the
// smaller box's area is covered by the intersection of the two boxes.
func (b Box) Overlaps(other Box, threshold float64) bool {
	xOverlap := max(0, min(b.X2, other.X2)-max(b.X1, other.X1))
	yOverlap := max(0, min(b.Y2, other.Y2)-max(b.Y1, other.Y1))
	intersection := xOverlap * yOverlap

	// A zero-area box is counted as area 1 so the ratio stays defined.
	smallerArea := min(b.Area(), other.Area())
	if smallerArea == 0 {
		smallerArea = 1
	}

	return float64(intersection)/float64(smallerArea) > threshold/100
}

// OverlapsCenter reports whether either box's center point lies inside the
// other box. This is a conservative test for two detections covering the
// same text region, as opposed to boxes merely touching at the edges.
func (b Box) OverlapsCenter(other Box) bool {
	bx, by := b.Center()
	ox, oy := other.Center()
	return other.Contains(bx, by) || b.Contains(ox, oy)
}

// Pad grows the box by amount pixels on all four sides, clamped to the
// canvas bounds.
func (b Box) Pad(amount int, canvas Size) Box {
	return Box{
		X1: max(b.X1-amount, 0),
		Y1: max(b.Y1-amount, 0),
		X2: min(b.X2+amount, canvas.W),
		Y2: min(b.Y2+amount, canvas.H),
	}
}

// RightPad grows only the right edge by amount pixels, clamped to the
// canvas bounds.
func (b Box) RightPad(amount int, canvas Size) Box {
	return Box{
		X1: b.X1,
		Y1: b.Y1,
		X2: min(b.X2+amount, canvas.W),
		Y2: b.Y2,
	}
}

// Scale multiplies every coordinate by factor, truncating to whole pixels.
// Used to map boxes between the working image and the original resolution.
func (b Box) Scale(factor float64) Box {
	return Box{
		X1: int(float64(b.X1) * factor),
		Y1: int(float64(b.Y1) * factor),
		X2: int(float64(b.X2) * factor),
		Y2: int(float64(b.Y2) * factor),
	}
}

// Normalized returns the box with its corners reordered so that X1 <= X2
// and Y1 <= Y2.
func (b Box) Normalized() Box {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// XYWH returns the box as top left corner plus width and height.
func (b Box) XYWH() (x, y, w, h int) {
	return b.X1, b.Y1, b.X2 - b.X1, b.Y2 - b.Y1
}

// String returns the coordinates as "x1,y1,x2,y2".
func (b Box) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", b.X1, b.Y1, b.X2, b.Y2)
}

// MarshalJSON encodes the box as a [x1, y1, x2, y2] array, the form used in
// the persisted page and analytics records.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes a [x1, y1, x2, y2] array.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords [4]int
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("failed to parse box coordinates: %w", err)
	}
	b.X1, b.Y1, b.X2, b.Y2 = coords[0], coords[1], coords[2], coords[3]
	return nil
}
