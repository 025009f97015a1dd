package local

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/assignment"
	"studytrack/internal/logging"
	"studytrack/internal/service"
	"studytrack/internal/storage"
)

var testNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func open(t *testing.T, store storage.Store, logOut *bytes.Buffer) *Tracker {
	t.Helper()
	opts := Options{
		IDs: assignment.NewCounterGenerator("new-"),
		Now: func() time.Time { return testNow },
	}
	if logOut != nil {
		opts.Logger = logging.New(logging.Options{Out: logOut})
	}
	tr, err := Open(context.Background(), store, opts)
	require.NoError(t, err)
	return tr
}

func stored(t *testing.T, m *storage.Memory) []assignment.Assignment {
	t.Helper()
	snapshot, err := assignment.Decode(m.Bytes())
	require.NoError(t, err)
	return snapshot
}

func TestOpen_SeedsWhenEmpty(t *testing.T) {
	m := storage.NewMemory()
	tr := open(t, m, nil)

	got, err := tr.Assignments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, assignment.Seed(testNow), got)

	assert.Equal(t, 1, m.Saves, "seed is persisted on first run")
	assert.Equal(t, got, stored(t, m))
	assert.Zero(t, tr.Version())
}

func TestOpen_LoadsStoredSnapshot(t *testing.T) {
	want := []assignment.Assignment{{
		ID:       "abc",
		Title:    "Stored",
		Subject:  "Art",
		DueDate:  testNow,
		Priority: assignment.Low,
		Subtasks: []assignment.Subtask{},
	}}
	data, err := assignment.Encode(want)
	require.NoError(t, err)

	tr := open(t, storage.NewMemoryWith(data), nil)
	got, _ := tr.Assignments(context.Background())
	assert.Equal(t, want, got)
}

func TestOpen_MalformedSnapshotFallsBackToSeed(t *testing.T) {
	var logs bytes.Buffer
	m := storage.NewMemoryWith([]byte("{definitely not json"))

	tr := open(t, m, &logs)

	got, _ := tr.Assignments(context.Background())
	assert.Equal(t, assignment.Seed(testNow), got)
	assert.Contains(t, logs.String(), "stored snapshot unreadable")
	assert.Equal(t, 0, m.Saves)
	assert.Equal(t, "{definitely not json", string(m.Bytes()), "unreadable blob must survive a read-only run")
}

func TestOpen_MalformedSnapshotReplacedOnFirstChange(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemoryWith([]byte("{definitely not json"))
	tr := open(t, m, nil)

	_, err := tr.ToggleAssignment(ctx, "1")
	require.NoError(t, err)

	snapshot := stored(t, m)
	assert.Len(t, snapshot, 6)
	assert.True(t, snapshot[0].Completed)
}

func TestOpen_StoreReadError(t *testing.T) {
	m := storage.NewMemory()
	m.LoadErr = errors.New("disk on fire")

	_, err := Open(context.Background(), m, Options{})
	assert.EqualError(t, err, "disk on fire")
}

func TestTracker_AddPersists(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	tr := open(t, m, nil)

	created, err := tr.AddAssignment(ctx, assignment.Draft{
		Title:    "Lab prep",
		Subject:  "Science",
		DueDate:  testNow.AddDate(0, 0, 2),
		Priority: assignment.High,
		Subtasks: []string{"goggles", "notebook"},
	})
	require.NoError(t, err)

	assert.Equal(t, "new-1", created.ID)
	require.Len(t, created.Subtasks, 2)
	assert.Equal(t, "new-2", created.Subtasks[0].ID)
	assert.Equal(t, "new-3", created.Subtasks[1].ID)

	snapshot := stored(t, m)
	require.Len(t, snapshot, 7)
	assert.Equal(t, created, snapshot[6])
	assert.Equal(t, uint64(1), tr.Version())
	assert.Equal(t, 2, m.Saves)
}

func TestTracker_ToggleAssignment(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	tr := open(t, m, nil)

	updated, err := tr.ToggleAssignment(ctx, "2")
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "2024-03-13T15:30:00.000Z", updated.CompletedAt)

	persisted, ok := assignment.Find(stored(t, m), "2")
	require.True(t, ok)
	assert.Equal(t, updated, persisted)

	_, err = tr.ToggleAssignment(ctx, "nope")
	assert.True(t, errors.Is(err, service.ErrNotFound))
	assert.Equal(t, uint64(1), tr.Version(), "unknown ids do not count as mutations")
	assert.Equal(t, 2, m.Saves)
}

func TestTracker_ToggleSubtask(t *testing.T) {
	ctx := context.Background()
	tr := open(t, storage.NewMemory(), nil)
	before, _ := tr.Assignments(ctx)

	updated, err := tr.ToggleSubtask(ctx, "1", "1-3")
	require.NoError(t, err)
	assert.True(t, updated.Subtasks[2].Completed)

	after, _ := tr.Assignments(ctx)
	for i := 1; i < len(before); i++ {
		assert.Equal(t, before[i], after[i])
	}
	assert.False(t, before[0].Subtasks[2].Completed, "earlier snapshots are never modified")

	_, err = tr.ToggleSubtask(ctx, "1", "2-1")
	assert.True(t, errors.Is(err, service.ErrNotFound))
	_, err = tr.ToggleSubtask(ctx, "9", "1-1")
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestTracker_SaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	m := storage.NewMemory()
	tr := open(t, m, &logs)

	m.SaveErr = errors.New("quota exceeded")
	updated, err := tr.ToggleAssignment(ctx, "1")
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	current, _ := tr.Assignments(ctx)
	a, _ := assignment.Find(current, "1")
	assert.True(t, a.Completed, "memory stays authoritative")
	assert.Contains(t, logs.String(), "failed to save snapshot")
	assert.Contains(t, logs.String(), "quota exceeded")

	persisted, _ := assignment.Find(stored(t, m), "1")
	assert.False(t, persisted.Completed)
}

func TestTracker_RoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	tr := open(t, m, nil)
	_, err := tr.ToggleAssignment(ctx, "5")
	require.NoError(t, err)
	want, _ := tr.Assignments(ctx)

	reopened := open(t, m, nil)
	got, _ := reopened.Assignments(ctx)
	assert.Equal(t, want, got)
}
