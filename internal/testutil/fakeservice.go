// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"studytrack/internal/assignment"
	"studytrack/internal/backend/local"
	"studytrack/internal/service"
	"studytrack/internal/storage"
)

// FixedNow is the clock used by fakes unless a test overrides it:
// Wednesday 2024-03-13 15:30 UTC.
var FixedNow = time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

// FakeService is a local.Tracker over in-memory storage with deterministic
// ids and clock, plus error injection.
type FakeService struct {
	*local.Tracker

	// Store is the backing store; inspect it to check what was persisted.
	Store *storage.Memory

	// Error injection for testing
	AssignmentsErr      error
	AddAssignmentErr    error
	ToggleSubtaskErr    error
	ToggleAssignmentErr error

	mu     sync.Mutex
	closed bool
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates a FakeService holding snapshot.
func NewFakeService(snapshot []assignment.Assignment) *FakeService {
	data, err := assignment.Encode(snapshot)
	if err != nil {
		panic(err)
	}
	return newFakeService(storage.NewMemoryWith(data))
}

// NewSeededFakeService creates a FakeService holding the seed collection
// as of FixedNow.
func NewSeededFakeService() *FakeService {
	return newFakeService(storage.NewMemory())
}

func newFakeService(store *storage.Memory) *FakeService {
	tr, err := local.Open(context.Background(), store, local.Options{
		IDs: assignment.NewCounterGenerator("new-"),
		Now: func() time.Time { return FixedNow },
	})
	if err != nil {
		panic(err)
	}
	return &FakeService{Tracker: tr, Store: store}
}

// Assignments implements service.Service.
func (f *FakeService) Assignments(ctx context.Context) ([]assignment.Assignment, error) {
	if f.AssignmentsErr != nil {
		return nil, f.AssignmentsErr
	}
	return f.Tracker.Assignments(ctx)
}

// AddAssignment implements service.Service.
func (f *FakeService) AddAssignment(ctx context.Context, d assignment.Draft) (assignment.Assignment, error) {
	if f.AddAssignmentErr != nil {
		return assignment.Assignment{}, f.AddAssignmentErr
	}
	return f.Tracker.AddAssignment(ctx, d)
}

// ToggleSubtask implements service.Service.
func (f *FakeService) ToggleSubtask(ctx context.Context, assignmentID, subtaskID string) (assignment.Assignment, error) {
	if f.ToggleSubtaskErr != nil {
		return assignment.Assignment{}, f.ToggleSubtaskErr
	}
	return f.Tracker.ToggleSubtask(ctx, assignmentID, subtaskID)
}

// ToggleAssignment implements service.Service.
func (f *FakeService) ToggleAssignment(ctx context.Context, assignmentID string) (assignment.Assignment, error) {
	if f.ToggleAssignmentErr != nil {
		return assignment.Assignment{}, f.ToggleAssignmentErr
	}
	return f.Tracker.ToggleAssignment(ctx, assignmentID)
}

// Close implements service.Service.
func (f *FakeService) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.Tracker.Close()
}

// Closed reports whether Close was called.
func (f *FakeService) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Get returns the current state of one assignment, or false.
func (f *FakeService) Get(id string) (assignment.Assignment, bool) {
	snapshot, _ := f.Tracker.Assignments(context.Background())
	return assignment.Find(snapshot, id)
}

// ExportCall records one call to FakeExporter.Export.
type ExportCall struct {
	List     string
	Snapshot []assignment.Assignment
	Replace  bool
}

// FakeExporter records exports instead of talking to Google Tasks.
type FakeExporter struct {
	mu    sync.Mutex
	Calls []ExportCall

	// NonEmpty makes exports without replace fail with service.ErrListNotEmpty.
	NonEmpty bool

	// Err is returned from Export when set.
	Err error
}

var _ service.Exporter = (*FakeExporter)(nil)

// Export implements service.Exporter.
func (f *FakeExporter) Export(ctx context.Context, listName string, snapshot []assignment.Assignment, replace bool) (service.ExportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, ExportCall{List: listName, Snapshot: snapshot, Replace: replace})
	if f.Err != nil {
		return service.ExportResult{}, f.Err
	}
	if f.NonEmpty && !replace {
		return service.ExportResult{}, service.ErrListNotEmpty
	}

	res := service.ExportResult{List: listName, Tasks: len(snapshot), Replaced: f.NonEmpty}
	for _, a := range snapshot {
		res.Subtasks += len(a.Subtasks)
	}
	return res, nil
}
