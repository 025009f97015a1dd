// Package assignment defines the assignment records, the seed collection and
// the reducer that produces a new snapshot for every mutation.
package assignment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of an assignment.
type Priority string

// Priority levels.
const (
	Low    Priority = "Low"
	Medium Priority = "Medium"
	High   Priority = "High"
)

// Priorities lists the levels from lowest to highest.
var Priorities = []Priority{Low, Medium, High}

// ParsePriority parses a priority name, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q", s)
}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

// UnmarshalJSON normalizes the casing of known levels. Unknown names are kept
// as stored.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParsePriority(s); err == nil {
		*p = parsed
		return nil
	}
	*p = Priority(s)
	return nil
}

// Subtask is a checklist item owned by one assignment.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Assignment is a single tracked piece of coursework.
//
// CompletedAt holds the ISO-8601 completion time and is empty while the
// assignment is open.
type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Notes       string    `json:"notes"`
	Subtasks    []Subtask `json:"subtasks"`
	Completed   bool      `json:"completed"`
	CompletedAt string    `json:"completedAt,omitempty"`
}

// CompletedTime parses CompletedAt. ok is false when the assignment has no
// completion time or the stored value is not a valid timestamp.
func (a Assignment) CompletedTime() (t time.Time, ok bool) {
	if a.CompletedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, a.CompletedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a copy of a that shares no subtask storage with it.
func (a Assignment) Clone() Assignment {
	if a.Subtasks != nil {
		subtasks := make([]Subtask, len(a.Subtasks))
		copy(subtasks, a.Subtasks)
		a.Subtasks = subtasks
	}
	return a
}

// Subtask returns the subtask with the given id.
func (a Assignment) Subtask(id string) (Subtask, bool) {
	for _, st := range a.Subtasks {
		if st.ID == id {
			return st, true
		}
	}
	return Subtask{}, false
}

// Find returns the assignment with the given id.
func Find(snapshot []Assignment, id string) (Assignment, bool) {
	for _, a := range snapshot {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}

// Draft is the input to Reducer.Add: an assignment without id or completion
// state. Subtasks are given as plain texts.
type Draft struct {
	Title    string
	Subject  string
	DueDate  time.Time
	Priority Priority
	Notes    string
	Subtasks []string
}

// StampLayout is the ISO-8601 form used for completion times.
const StampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatStamp renders t in UTC using StampLayout.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}
