// Package local implements service.Service over a storage.Store.
package local

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"studytrack/internal/assignment"
	"studytrack/internal/service"
	"studytrack/internal/storage"
)

// Options configures a Tracker.
type Options struct {
	IDs    assignment.IDGenerator
	Now    func() time.Time
	Logger *zap.Logger
}

// Tracker holds the current snapshot, applies mutations through a reducer and
// saves the whole snapshot after each one.
type Tracker struct {
	mu       sync.Mutex
	store    storage.Store
	reducer  *assignment.Reducer
	log      *zap.Logger
	snapshot []assignment.Assignment
	version  uint64
}

var _ service.Service = (*Tracker)(nil)

// Open hydrates a Tracker from store. A missing or unreadable snapshot is
// replaced by the seed collection; only a failing store read is an error.
// The hydrated snapshot is saved once, except when the stored blob could not
// be decoded: that blob is left in place until the first mutation.
func Open(ctx context.Context, store storage.Store, opts Options) (*Tracker, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	t := &Tracker{
		store:   store,
		reducer: assignment.NewReducer(opts.IDs, opts.Now),
		log:     opts.Logger,
	}

	initial, persist, err := t.load(ctx, opts.Now)
	if err != nil {
		return nil, err
	}
	t.snapshot = t.reducer.Apply(nil, assignment.ReplaceAllAction{Snapshot: initial})
	if persist {
		t.save(ctx)
	}
	return t, nil
}

// load reports whether the result may be written back right away.
func (t *Tracker) load(ctx context.Context, now func() time.Time) ([]assignment.Assignment, bool, error) {
	data, err := t.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		t.log.Debug("no stored snapshot, using seed data")
		return assignment.Seed(now()), true, nil
	}
	if err != nil {
		return nil, false, err
	}

	snapshot, err := assignment.Decode(data)
	if err != nil {
		t.log.Warn("stored snapshot unreadable, using seed data until the next change",
			zap.Error(err), zap.Int("bytes", len(data)))
		return assignment.Seed(now()), false, nil
	}
	t.log.Debug("loaded snapshot", zap.Int("assignments", len(snapshot)))
	return snapshot, true, nil
}

// save writes the snapshot. Failures are logged and otherwise ignored: the
// in-memory snapshot stays authoritative.
func (t *Tracker) save(ctx context.Context) {
	data, err := assignment.Encode(t.snapshot)
	if err == nil {
		err = t.store.Save(ctx, data)
	}
	if err != nil {
		t.log.Warn("failed to save snapshot", zap.Error(err), zap.Uint64("version", t.version))
		return
	}
	t.log.Debug("saved snapshot", zap.Int("assignments", len(t.snapshot)), zap.Uint64("version", t.version))
}

// commit installs next and saves it.
func (t *Tracker) commit(ctx context.Context, next []assignment.Assignment) {
	t.snapshot = next
	t.version++
	t.save(ctx)
}

// Version counts effective mutations since Open.
func (t *Tracker) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Assignments implements service.Service.
func (t *Tracker) Assignments(ctx context.Context) ([]assignment.Assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot, nil
}

// AddAssignment implements service.Service.
func (t *Tracker) AddAssignment(ctx context.Context, d assignment.Draft) (assignment.Assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, created := t.reducer.Add(t.snapshot, d)
	t.commit(ctx, next)
	return created, nil
}

// ToggleSubtask implements service.Service.
func (t *Tracker) ToggleSubtask(ctx context.Context, assignmentID, subtaskID string) (assignment.Assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := assignment.Find(t.snapshot, assignmentID)
	if !ok {
		return assignment.Assignment{}, service.ErrNotFound
	}
	if _, ok := a.Subtask(subtaskID); !ok {
		return assignment.Assignment{}, service.ErrNotFound
	}

	next := t.reducer.Apply(t.snapshot, assignment.ToggleSubtaskAction{AssignmentID: assignmentID, SubtaskID: subtaskID})
	t.commit(ctx, next)
	updated, _ := assignment.Find(next, assignmentID)
	return updated, nil
}

// ToggleAssignment implements service.Service.
func (t *Tracker) ToggleAssignment(ctx context.Context, assignmentID string) (assignment.Assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := assignment.Find(t.snapshot, assignmentID); !ok {
		return assignment.Assignment{}, service.ErrNotFound
	}

	next := t.reducer.Apply(t.snapshot, assignment.ToggleAssignmentAction{AssignmentID: assignmentID})
	t.commit(ctx, next)
	updated, _ := assignment.Find(next, assignmentID)
	return updated, nil
}

// Close implements service.Service.
func (t *Tracker) Close() error {
	return t.store.Close()
}
