package assignment

import (
	"strings"
	"time"
)

// Action is one of the mutations a Reducer understands.
type Action interface {
	isAction()
}

// AddAction appends a new assignment built from Draft.
type AddAction struct{ Draft Draft }

// ToggleSubtaskAction flips one subtask of one assignment.
type ToggleSubtaskAction struct{ AssignmentID, SubtaskID string }

// ToggleAssignmentAction flips the completion of one assignment.
type ToggleAssignmentAction struct{ AssignmentID string }

// ReplaceAllAction installs Snapshot verbatim.
type ReplaceAllAction struct{ Snapshot []Assignment }

func (AddAction) isAction()              {}
func (ToggleSubtaskAction) isAction()    {}
func (ToggleAssignmentAction) isAction() {}
func (ReplaceAllAction) isAction()       {}

// Reducer computes the next snapshot from the current one and an action.
//
// It never modifies its input: every effective mutation returns a freshly
// allocated slice, and assignments it does not touch are copied by value.
// When an action refers to an unknown id the input slice is returned as is.
type Reducer struct {
	ids IDGenerator
	now func() time.Time
}

// NewReducer returns a Reducer. Nil arguments fall back to UUIDGenerator and
// time.Now.
func NewReducer(ids IDGenerator, now func() time.Time) *Reducer {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if now == nil {
		now = time.Now
	}
	return &Reducer{ids: ids, now: now}
}

// Apply dispatches action to the matching method.
func (r *Reducer) Apply(state []Assignment, action Action) []Assignment {
	switch a := action.(type) {
	case AddAction:
		next, _ := r.Add(state, a.Draft)
		return next
	case ToggleSubtaskAction:
		return r.ToggleSubtask(state, a.AssignmentID, a.SubtaskID)
	case ToggleAssignmentAction:
		return r.ToggleAssignment(state, a.AssignmentID)
	case ReplaceAllAction:
		return r.ReplaceAll(a.Snapshot)
	default:
		return state
	}
}

// Add appends an open assignment built from d and returns the new snapshot
// together with the created record. Blank subtask texts are dropped.
// Add does not validate d; callers reject empty titles and due dates.
func (r *Reducer) Add(state []Assignment, d Draft) ([]Assignment, Assignment) {
	taken := make(map[string]bool, len(state))
	for _, a := range state {
		taken[a.ID] = true
		for _, st := range a.Subtasks {
			taken[st.ID] = true
		}
	}

	created := Assignment{
		ID:       r.freshID(taken),
		Title:    d.Title,
		Subject:  d.Subject,
		DueDate:  d.DueDate,
		Priority: d.Priority,
		Notes:    d.Notes,
		Subtasks: []Subtask{},
	}
	for _, text := range d.Subtasks {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		created.Subtasks = append(created.Subtasks, Subtask{ID: r.freshID(taken), Text: text})
	}

	next := make([]Assignment, len(state), len(state)+1)
	copy(next, state)
	next = append(next, created)
	return next, created
}

// ToggleSubtask flips the completed flag of one subtask.
func (r *Reducer) ToggleSubtask(state []Assignment, assignmentID, subtaskID string) []Assignment {
	i := indexOf(state, assignmentID)
	if i < 0 {
		return state
	}
	j := -1
	for k, st := range state[i].Subtasks {
		if st.ID == subtaskID {
			j = k
			break
		}
	}
	if j < 0 {
		return state
	}

	next := clone(state)
	updated := state[i].Clone()
	updated.Subtasks[j].Completed = !updated.Subtasks[j].Completed
	next[i] = updated
	return next
}

// ToggleAssignment flips the completion of one assignment. Completing it
// stamps CompletedAt and marks every subtask done; reopening clears the stamp
// and leaves the subtasks as they are.
func (r *Reducer) ToggleAssignment(state []Assignment, assignmentID string) []Assignment {
	i := indexOf(state, assignmentID)
	if i < 0 {
		return state
	}

	next := clone(state)
	updated := state[i].Clone()
	updated.Completed = !updated.Completed
	if updated.Completed {
		updated.CompletedAt = FormatStamp(r.now())
		for k := range updated.Subtasks {
			updated.Subtasks[k].Completed = true
		}
	} else {
		updated.CompletedAt = ""
	}
	next[i] = updated
	return next
}

// ReplaceAll returns a copy of snapshot. It is used once, at hydration.
func (r *Reducer) ReplaceAll(snapshot []Assignment) []Assignment {
	next := make([]Assignment, len(snapshot))
	for i, a := range snapshot {
		next[i] = a.Clone()
	}
	return next
}

func (r *Reducer) freshID(taken map[string]bool) string {
	for {
		id := r.ids.NewID()
		if id != "" && !taken[id] {
			taken[id] = true
			return id
		}
	}
}

func indexOf(state []Assignment, id string) int {
	for i, a := range state {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func clone(state []Assignment) []Assignment {
	next := make([]Assignment, len(state))
	copy(next, state)
	return next
}
