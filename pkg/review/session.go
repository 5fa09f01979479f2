package review

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/scantools/bubble-review/internal/logging"
	"github.com/scantools/bubble-review/pkg/analytics"
	"github.com/scantools/bubble-review/pkg/geometry"
)

var logger = logging.New("review")

// Column identifies a cell of a record's table row.
type Column int

const (
	// ColumnLabel is the read-only identity column.
	ColumnLabel Column = iota
	// ColumnText is the editable OCR text column.
	ColumnText
)

// Config holds the review policy settings.
type Config struct {
	// MinBubbleArea is the smallest area in square pixels a hand-drawn
	// bubble may have before it is discarded.
	MinBubbleArea int `json:"min_bubble_area"`
}

// DefaultConfig returns the default review policy.
func DefaultConfig() Config {
	return Config{
		MinBubbleArea: 400,
	}
}

// Session owns the editable annotation set for one image. The snapshot it
// was created from is kept frozen so records can be restored to their
// original state at any time. A session is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	config   Config
	original analytics.Snapshot
	records  []*Record
}

// NewSession creates a review session with the default policy.
func NewSession(snap analytics.Snapshot) *Session {
	return NewSessionWithConfig(snap, DefaultConfig())
}

// NewSessionWithConfig creates a review session for one image's snapshot.
func NewSessionWithConfig(snap analytics.Snapshot, config Config) *Session {
	frozen := snap.Clone()
	return &Session{
		id:       uuid.New(),
		config:   config,
		original: frozen,
		records:  Expand(frozen),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Len returns the number of records in the session.
func (s *Session) Len() int {
	return len(s.records)
}

// Records returns the records in display order.
func (s *Session) Records() []*Record {
	return s.records
}

// Record returns the record at the given row.
func (s *Session) Record(row int) *Record {
	s.mustRow(row)
	return s.records[row]
}

// ToggleDelete flips the removal state of the record at the given row.
// Deleting a New record discards it from the set entirely. A negative row
// means nothing is selected and the call is ignored. Returns false when the
// record was discarded or the call was ignored.
func (s *Session) ToggleDelete(row int) bool {
	if row < 0 {
		logger.Debug("delete requested without a selection")
		return false
	}
	s.mustRow(row)

	record := s.records[row]
	switch record.Status {
	case StatusNew:
		s.records = append(s.records[:row], s.records[row+1:]...)
		return false
	case StatusRemoved:
		record.Status = StatusNormal
	case StatusEditedRemoved:
		record.Status = StatusEdited
	case StatusEdited:
		record.Status = StatusEditedRemoved
	default:
		record.Status = StatusRemoved
	}
	return true
}

// EditText replaces the text of the record at the given row. Editing a
// Normal record marks it Edited, editing a Removed one marks it
// EditedRemoved. The label is left alone. Returns the resulting status.
func (s *Session) EditText(row int, text string) Status {
	s.mustRow(row)

	record := s.records[row]
	record.Text = text
	if record.Status == StatusNormal {
		record.Status = StatusEdited
	}
	if record.Status == StatusRemoved {
		record.Status = StatusEditedRemoved
	}
	return record.Status
}

// SetCell writes a cell value coming from the review table. Only the text
// column is editable; writing any other column is a caller bug.
func (s *Session) SetCell(row int, col Column, value string) Status {
	if col != ColumnText {
		panic(fmt.Sprintf("column %d is not editable", int(col)))
	}
	return s.EditText(row, value)
}

// Reset restores the record at the given row from the frozen original
// snapshot. Records are matched by label, not by position, so the reset
// survives reordering. Only edited records can be reset.
func (s *Session) Reset(row int) bool {
	s.mustRow(row)

	record := s.records[row]
	if !record.Status.IsEdited() {
		logger.Error("cannot reset a record that was not edited", "label", record.Label, "status", record.Status)
		return false
	}
	for _, original := range Expand(s.original) {
		if original.Label == record.Label {
			s.records[row] = original
			return true
		}
	}
	logger.Error("no original record for label", "label", record.Label)
	return false
}

// ResetAll discards every edit and rebuilds the set from the original
// snapshot.
func (s *Session) ResetAll() {
	s.records = Expand(s.original)
}

// MoveUp swaps the record at the given row with the one above it.
func (s *Session) MoveUp(row int) bool {
	s.mustRow(row)
	if row == 0 {
		logger.Debug("record is already at the top", "row", row)
		return false
	}
	s.records[row-1], s.records[row] = s.records[row], s.records[row-1]
	return true
}

// MoveDown swaps the record at the given row with the one below it.
func (s *Session) MoveDown(row int) bool {
	s.mustRow(row)
	if row == len(s.records)-1 {
		logger.Debug("record is already at the bottom", "row", row)
		return false
	}
	s.records[row], s.records[row+1] = s.records[row+1], s.records[row]
	return true
}

// AddBubble appends a record for a hand-drawn rectangle. The rectangle is
// normalized first and discarded if its area is below the configured
// minimum. New records take their path from the existing records and start
// with empty text.
func (s *Session) AddBubble(box geometry.Box) (*Record, bool) {
	box = box.Normalized()
	if box.Area() < s.config.MinBubbleArea {
		logger.Debug("discarding bubble due to size", "area", box.Area(), "min", s.config.MinBubbleArea)
		return nil, false
	}

	newCount := 0
	for _, r := range s.records {
		if r.Status == StatusNew {
			newCount++
		}
	}
	path := ""
	if len(s.records) > 0 {
		path = s.records[0].Path
	}

	record := &Record{
		Path:   path,
		Box:    box,
		Label:  fmt.Sprintf("New %d", newCount+1),
		Status: StatusNew,
	}
	s.records = append(s.records, record)
	return record, true
}

// Collapse folds the session's current records into a snapshot.
func (s *Session) Collapse() analytics.Snapshot {
	return Collapse(s.records)
}

// mustRow panics if the row is not a valid record index.
func (s *Session) mustRow(row int) {
	if row < 0 || row >= len(s.records) {
		panic(fmt.Sprintf("row %d out of range for %d records", row, len(s.records)))
	}
}
