package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"studytrack/internal/assignment"
	"studytrack/internal/service"
)

// fakeTasksAPI is a minimal in-memory Google Tasks server.
type fakeTasksAPI struct {
	mu      sync.Mutex
	lists   []*tasks.TaskList
	items   map[string][]*tasks.Task
	parents map[string]string
	deleted []string
	status  int
	nextID  int
}

func newFakeTasksAPI() *fakeTasksAPI {
	return &fakeTasksAPI{items: map[string][]*tasks.Task{}, parents: map[string]string{}}
}

func (f *fakeTasksAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeTasksAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		http.Error(w, `{"error":{"code":401,"message":"unauthorized"}}`, f.status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tasks/v1/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case path == "users/@me/lists" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(&tasks.TaskLists{Items: f.lists})

	case path == "users/@me/lists" && r.Method == http.MethodPost:
		var list tasks.TaskList
		_ = json.NewDecoder(r.Body).Decode(&list)
		list.Id = f.id("list-")
		f.lists = append(f.lists, &list)
		_ = json.NewEncoder(w).Encode(&list)

	case strings.HasPrefix(path, "users/@me/lists/") && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(path, "users/@me/lists/")
		for i, l := range f.lists {
			if l.Id == id {
				f.lists = append(f.lists[:i], f.lists[i+1:]...)
				break
			}
		}
		delete(f.items, id)
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)

	case strings.HasPrefix(path, "lists/") && strings.HasSuffix(path, "/tasks"):
		listID := strings.TrimSuffix(strings.TrimPrefix(path, "lists/"), "/tasks")
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(&tasks.Tasks{Items: f.items[listID]})
			return
		}
		var task tasks.Task
		_ = json.NewDecoder(r.Body).Decode(&task)
		task.Id = f.id("task-")
		task.Parent = r.URL.Query().Get("parent")
		f.items[listID] = append(f.items[listID], &task)
		_ = json.NewEncoder(w).Encode(&task)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeTasksAPI) tasksIn(title string) []*tasks.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lists {
		if l.Title == title {
			return f.items[l.Id]
		}
	}
	return nil
}

func newTestClient(t *testing.T, api *fakeTasksAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

var testNow = time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

func TestExport_CreatesListWithTasksAndSubtasks(t *testing.T) {
	api := newFakeTasksAPI()
	c := newTestClient(t, api)

	snapshot := assignment.Seed(testNow)
	res, err := c.Export(context.Background(), "Assignments", snapshot, false)
	require.NoError(t, err)

	subtasks := 0
	for _, a := range snapshot {
		subtasks += len(a.Subtasks)
	}
	assert.Equal(t, "Assignments", res.List)
	assert.Equal(t, len(snapshot), res.Tasks)
	assert.Equal(t, subtasks, res.Subtasks)
	assert.False(t, res.Replaced)

	items := api.tasksIn("Assignments")
	require.Len(t, items, len(snapshot)+subtasks)

	first := items[0]
	assert.Equal(t, "[Mathematics] Complete Calculus Homework Chapter 5", first.Title)
	assert.Equal(t, "needsAction", first.Status)
	assert.Contains(t, first.Notes, "Priority: High")
	assert.Equal(t, "2024-03-14T15:30:00Z", first.Due)

	// Subtasks follow their parent and point back to it.
	for _, st := range items[1 : 1+len(snapshot[0].Subtasks)] {
		assert.Equal(t, first.Id, st.Parent)
	}
}

func TestExport_CompletedAssignment(t *testing.T) {
	api := newFakeTasksAPI()
	c := newTestClient(t, api)

	a := assignment.Assignment{
		ID:          "x",
		Title:       "Essay",
		Subject:     "English",
		DueDate:     testNow,
		Priority:    assignment.Low,
		Subtasks:    []assignment.Subtask{},
		Completed:   true,
		CompletedAt: assignment.FormatStamp(testNow),
	}
	_, err := c.Export(context.Background(), "School", []assignment.Assignment{a}, false)
	require.NoError(t, err)

	items := api.tasksIn("School")
	require.Len(t, items, 1)
	assert.Equal(t, "completed", items[0].Status)
	require.NotNil(t, items[0].Completed)
	assert.Equal(t, "2024-03-13T15:30:00Z", *items[0].Completed)
	assert.Equal(t, "Priority: Low", items[0].Notes)
}

func TestExport_ReusesEmptyList(t *testing.T) {
	api := newFakeTasksAPI()
	api.lists = []*tasks.TaskList{{Id: "existing", Title: " assignments "}}
	c := newTestClient(t, api)

	_, err := c.Export(context.Background(), "Assignments", assignment.Seed(testNow)[:1], false)
	require.NoError(t, err)

	assert.Len(t, api.lists, 1)
	assert.NotEmpty(t, api.items["existing"])
	assert.Empty(t, api.deleted)
}

func TestExport_NonEmptyListRequiresReplace(t *testing.T) {
	api := newFakeTasksAPI()
	api.lists = []*tasks.TaskList{{Id: "existing", Title: "Assignments"}}
	api.items["existing"] = []*tasks.Task{{Id: "old", Title: "stale"}}
	c := newTestClient(t, api)

	_, err := c.Export(context.Background(), "Assignments", assignment.Seed(testNow), false)
	assert.ErrorIs(t, err, service.ErrListNotEmpty)
	assert.Empty(t, api.deleted)

	res, err := c.Export(context.Background(), "Assignments", assignment.Seed(testNow), true)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, []string{"existing"}, api.deleted)

	items := api.tasksIn("Assignments")
	for _, it := range items {
		assert.NotEqual(t, "stale", it.Title)
	}
}

func TestExport_AuthErrorHint(t *testing.T) {
	api := newFakeTasksAPI()
	api.status = http.StatusUnauthorized
	c := newTestClient(t, api)

	_, err := c.Export(context.Background(), "Assignments", nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrAuth)
	assert.Contains(t, err.Error(), "studytrack login")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil))
	assert.EqualError(t, wrapError(fmt.Errorf("context deadline exceeded")), "request timed out")
	assert.ErrorIs(t, wrapError(fmt.Errorf("googleapi: Error 404: not found")), service.ErrNotFound)
	assert.ErrorIs(t, wrapError(fmt.Errorf("googleapi: Error 403: forbidden")), service.ErrAuth)
	assert.EqualError(t, wrapError(fmt.Errorf("googleapi: Error 401: invalid")), "token expired or revoked (run: studytrack login)")
	assert.Contains(t, wrapError(fmt.Errorf("boom")).Error(), "google tasks: boom")
}
