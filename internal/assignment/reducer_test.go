package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

func newTestReducer() *Reducer {
	return NewReducer(NewCounterGenerator("id-"), func() time.Time { return testNow })
}

func TestReducer_Add(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	draft := Draft{
		Title:    "Problem set 4",
		Subject:  "Mathematics",
		DueDate:  testNow.AddDate(0, 0, 3),
		Priority: Medium,
		Notes:    "odd numbers only",
		Subtasks: []string{"Part A", "  Part B  "},
	}
	next, created := r.Add(state, draft)

	require.Len(t, next, len(state)+1)
	assert.Len(t, state, 6, "input snapshot must not grow")

	last := next[len(next)-1]
	assert.Equal(t, created, last)
	assert.False(t, last.Completed)
	assert.Empty(t, last.CompletedAt)
	assert.Equal(t, "Problem set 4", last.Title)
	assert.Equal(t, Medium, last.Priority)
	assert.Equal(t, "odd numbers only", last.Notes)

	require.Len(t, last.Subtasks, 2)
	assert.Equal(t, "Part A", last.Subtasks[0].Text)
	assert.Equal(t, "Part B", last.Subtasks[1].Text)

	ids := map[string]bool{}
	for _, a := range state {
		ids[a.ID] = true
		for _, st := range a.Subtasks {
			ids[st.ID] = true
		}
	}
	assert.False(t, ids[last.ID], "id %q reused", last.ID)
	for _, st := range last.Subtasks {
		assert.False(t, st.Completed)
		assert.False(t, ids[st.ID], "subtask id %q reused", st.ID)
		assert.NotEqual(t, last.ID, st.ID)
	}
	assert.NotEqual(t, last.Subtasks[0].ID, last.Subtasks[1].ID)
}

func TestReducer_AddDropsBlankSubtasks(t *testing.T) {
	r := newTestReducer()
	_, created := r.Add(nil, Draft{Title: "x", DueDate: testNow, Subtasks: []string{"", "   ", "real"}})

	require.Len(t, created.Subtasks, 1)
	assert.Equal(t, "real", created.Subtasks[0].Text)
}

func TestReducer_AddSkipsTakenIDs(t *testing.T) {
	// A counter restarting at 1 would collide with the seed ids "1".."6".
	r := NewReducer(NewCounterGenerator(""), func() time.Time { return testNow })
	state := Seed(testNow)

	next, created := r.Add(state, Draft{Title: "x", DueDate: testNow, Subtasks: []string{"a"}})

	require.Len(t, next, 7)
	assert.Equal(t, "7", created.ID)
	assert.Equal(t, "8", created.Subtasks[0].ID)
}

func TestReducer_ToggleSubtask(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	next := r.ToggleSubtask(state, "1", "1-2")

	assert.True(t, next[0].Subtasks[1].Completed)
	assert.False(t, state[0].Subtasks[1].Completed, "input snapshot must not change")
	assert.True(t, next[0].Subtasks[0].Completed)
	assert.False(t, next[0].Subtasks[2].Completed)
	assert.False(t, next[0].Completed, "subtasks never complete the parent")

	for i := 1; i < len(state); i++ {
		assert.Equal(t, state[i], next[i], "assignment %s changed", state[i].ID)
	}

	back := r.ToggleSubtask(next, "1", "1-2")
	assert.Equal(t, state, back)
}

func TestReducer_ToggleSubtaskUnknownIDs(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	for _, tc := range []struct{ name, aID, sID string }{
		{"unknown assignment", "nope", "1-1"},
		{"unknown subtask", "1", "nope"},
		{"subtask of another assignment", "1", "2-1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			next := r.ToggleSubtask(state, tc.aID, tc.sID)
			assert.Equal(t, state, next)
			assert.Same(t, &state[0], &next[0], "no-op must return the same snapshot")
		})
	}
}

func TestReducer_ToggleAssignmentCascade(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	done := r.ToggleAssignment(state, "1")
	a := done[0]
	assert.True(t, a.Completed)
	assert.Equal(t, "2024-03-13T15:30:00.000Z", a.CompletedAt)
	for _, st := range a.Subtasks {
		assert.True(t, st.Completed, "subtask %s not cascaded", st.ID)
	}
	assert.False(t, state[0].Completed, "input snapshot must not change")
	assert.False(t, state[0].Subtasks[1].Completed)

	// Reopening clears the stamp but leaves cascaded subtasks done.
	reopened := r.ToggleAssignment(done, "1")
	b := reopened[0]
	assert.False(t, b.Completed)
	assert.Empty(t, b.CompletedAt)
	for _, st := range b.Subtasks {
		assert.True(t, st.Completed, "subtask %s should stay completed", st.ID)
	}
}

func TestReducer_ToggleAssignmentRoundTrip(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	// Assignment 3 has every subtask done already, so two toggles restore it
	// exactly.
	twice := r.ToggleAssignment(r.ToggleAssignment(state, "3"), "3")
	assert.Equal(t, state[2], twice[2])

	// Assignment 6 starts completed: reopen then complete again.
	twice = r.ToggleAssignment(r.ToggleAssignment(state, "6"), "6")
	assert.True(t, twice[5].Completed)
	assert.Equal(t, "2024-03-13T15:30:00.000Z", twice[5].CompletedAt)
}

func TestReducer_ToggleAssignmentUnknownID(t *testing.T) {
	r := newTestReducer()
	state := Seed(testNow)

	next := r.ToggleAssignment(state, "missing")
	assert.Equal(t, state, next)
}

func TestReducer_ReplaceAll(t *testing.T) {
	r := newTestReducer()
	seed := Seed(testNow)

	next := r.ReplaceAll(seed)
	require.Equal(t, seed, next)

	next[0].Subtasks[0].Text = "changed"
	assert.Equal(t, "Problems 1-5", seed[0].Subtasks[0].Text, "ReplaceAll must copy")
}

func TestReducer_Apply(t *testing.T) {
	r := newTestReducer()

	state := r.Apply(nil, ReplaceAllAction{Snapshot: Seed(testNow)})
	require.Len(t, state, 6)

	state = r.Apply(state, AddAction{Draft: Draft{Title: "Quiz", DueDate: testNow}})
	require.Len(t, state, 7)
	assert.Equal(t, "id-1", state[6].ID)

	state = r.Apply(state, ToggleAssignmentAction{AssignmentID: "id-1"})
	assert.True(t, state[6].Completed)

	state = r.Apply(state, ToggleSubtaskAction{AssignmentID: "2", SubtaskID: "2-3"})
	assert.True(t, state[1].Subtasks[2].Completed)
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.NewID(), g.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
