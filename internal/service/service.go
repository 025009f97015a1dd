// Package service defines the backend-agnostic interfaces used by commands.
package service

import (
	"context"
	"errors"

	"studytrack/internal/assignment"
)

// ErrNotFound is returned when an assignment or subtask id is unknown.
var ErrNotFound = errors.New("not found")

// ErrListNotEmpty is returned by Exporter when the target list already holds
// tasks and replacement was not requested.
var ErrListNotEmpty = errors.New("list not empty")

// ErrAuth is returned by Exporter when stored credentials are rejected.
var ErrAuth = errors.New("token expired or revoked")

// Service hosts the assignment snapshot for one process.
// Commands never touch storage directly.
type Service interface {
	// Assignments returns the current snapshot in insertion order.
	// Callers must not modify it.
	Assignments(ctx context.Context) ([]assignment.Assignment, error)

	// AddAssignment appends a new open assignment built from d.
	AddAssignment(ctx context.Context, d assignment.Draft) (assignment.Assignment, error)

	// ToggleSubtask flips one subtask and returns the updated parent.
	// Returns ErrNotFound if either id is unknown.
	ToggleSubtask(ctx context.Context, assignmentID, subtaskID string) (assignment.Assignment, error)

	// ToggleAssignment flips completion and returns the updated assignment.
	// Returns ErrNotFound if the id is unknown.
	ToggleAssignment(ctx context.Context, assignmentID string) (assignment.Assignment, error)

	// Close releases the underlying storage.
	Close() error
}

// ExportResult describes a finished export.
type ExportResult struct {
	List     string
	Tasks    int
	Subtasks int
	Replaced bool
}

// Exporter copies a snapshot into an external task list. It never reads
// anything back into the snapshot.
type Exporter interface {
	// Export writes snapshot into the list named listName, creating it if
	// needed. A non-empty existing list is replaced only when replace is
	// true; otherwise ErrListNotEmpty is returned.
	Export(ctx context.Context, listName string, snapshot []assignment.Assignment, replace bool) (ExportResult, error)
}
