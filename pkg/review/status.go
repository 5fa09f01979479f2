// Package review implements the editable annotation set a human reviewer
// works through after OCR. Each image gets a session holding one record per
// bubble; records move through a small state machine as the reviewer edits,
// removes and restores them, and the session can always fall back to the
// frozen snapshot it was created from.
package review

import "fmt"

// Status tracks the review state of a single bubble.
type Status int

const (
	// StatusNormal marks a record that matches the original detection.
	StatusNormal Status = iota
	// StatusRemoved marks an unedited record the reviewer discarded.
	StatusRemoved
	// StatusEdited marks a record whose text was changed.
	StatusEdited
	// StatusEditedRemoved marks an edited record that was then discarded.
	StatusEditedRemoved
	// StatusNew marks a record the reviewer drew by hand.
	StatusNew
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusRemoved:
		return "removed"
	case StatusEdited:
		return "edited"
	case StatusEditedRemoved:
		return "edited_removed"
	case StatusNew:
		return "new"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsRemoved reports whether the record is currently marked for removal.
func (s Status) IsRemoved() bool {
	return s == StatusRemoved || s == StatusEditedRemoved
}

// IsEdited reports whether the record's text differs from the original.
func (s Status) IsEdited() bool {
	return s == StatusEdited || s == StatusEditedRemoved
}
