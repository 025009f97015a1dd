// Package googletasks exports assignments into a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"studytrack/internal/assignment"
	"studytrack/internal/config"
	"studytrack/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Exporter using the Google Tasks API.
type Client struct {
	svc *tasks.Service
	log *zap.Logger
}

var _ service.Exporter = (*Client)(nil)

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read oauth_client.json")
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, errors.Wrap(err, "invalid oauth_client.json")
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read token.json")
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, errors.Wrap(err, "invalid token.json")
	}

	// Token source refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tasks service")
	}

	return &Client{svc: svc, log: cfg.Log()}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, log: zap.NewNop()}, nil
}

// Export implements service.Exporter. Assignments become top-level tasks in
// snapshot order and their subtasks become child tasks.
func (c *Client) Export(ctx context.Context, listName string, snapshot []assignment.Assignment, replace bool) (service.ExportResult, error) {
	result := service.ExportResult{List: strings.TrimSpace(listName)}

	list, err := c.resolveList(ctx, result.List)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return result, err
	}

	if list != nil {
		hasTasks, err := c.hasTasks(ctx, list.Id)
		if err != nil {
			return result, err
		}
		if hasTasks {
			if !replace {
				return result, service.ErrListNotEmpty
			}
			if err := c.deleteList(ctx, list.Id); err != nil {
				return result, err
			}
			result.Replaced = true
			list = nil
		}
	}

	if list == nil {
		list, err = c.createList(ctx, result.List)
		if err != nil {
			return result, err
		}
	}

	// Google Tasks inserts each new task at the top unless a previous
	// sibling is given, so chain through the last inserted task.
	var previous string
	for _, a := range snapshot {
		created, err := c.insert(ctx, list.Id, taskFor(a), "", previous)
		if err != nil {
			return result, err
		}
		previous = created.Id
		result.Tasks++

		var previousChild string
		for _, st := range a.Subtasks {
			child, err := c.insert(ctx, list.Id, taskForSubtask(st), created.Id, previousChild)
			if err != nil {
				return result, err
			}
			previousChild = child.Id
			result.Subtasks++
		}
	}

	c.log.Debug("exported snapshot",
		zap.String("list", result.List),
		zap.Int("tasks", result.Tasks),
		zap.Int("subtasks", result.Subtasks),
	)
	return result, nil
}

// taskFor maps an assignment to a task. Title carries the subject and
// priority since Tasks has no fields for them.
func taskFor(a assignment.Assignment) *tasks.Task {
	t := &tasks.Task{
		Title:  fmt.Sprintf("[%s] %s", a.Subject, a.Title),
		Notes:  notesFor(a),
		Due:    a.DueDate.UTC().Format(time.RFC3339),
		Status: statusNeedsAction,
	}
	if a.Completed {
		t.Status = statusCompleted
		if at, ok := a.CompletedTime(); ok {
			completed := at.UTC().Format(time.RFC3339)
			t.Completed = &completed
		}
	}
	return t
}

func notesFor(a assignment.Assignment) string {
	notes := "Priority: " + string(a.Priority)
	if strings.TrimSpace(a.Notes) != "" {
		notes += "\n\n" + a.Notes
	}
	return notes
}

func taskForSubtask(st assignment.Subtask) *tasks.Task {
	t := &tasks.Task{Title: st.Text, Status: statusNeedsAction}
	if st.Completed {
		t.Status = statusCompleted
	}
	return t
}

// resolveList finds a list by name (case-insensitive, trimmed).
// Returns service.ErrNotFound if no list matches.
func (c *Client) resolveList(ctx context.Context, name string) (*tasks.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	nameLower := strings.ToLower(name)
	var matches []*tasks.TaskList
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	switch len(matches) {
	case 0:
		return nil, service.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous list name: %s", name)
	}
}

func (c *Client) createList(ctx context.Context, name string) (*tasks.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return list, nil
}

func (c *Client) deleteList(ctx context.Context, listID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return wrapError(c.svc.Tasklists.Delete(listID).Context(ctx).Do())
}

// hasTasks reports whether a list holds any task, completed or not.
func (c *Client) hasTasks(ctx context.Context, listID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.svc.Tasks.List(listID).
		MaxResults(1).
		ShowCompleted(true).
		ShowHidden(true).
		Context(ctx).
		Do()
	if err != nil {
		return false, wrapError(err)
	}
	return len(resp.Items) > 0, nil
}

func (c *Client) insert(ctx context.Context, listID string, task *tasks.Task, parent, previous string) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Insert(listID, task).Context(ctx)
	if parent != "" {
		call = call.Parent(parent)
	}
	if previous != "" {
		call = call.Previous(previous)
	}
	created, err := call.Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return created, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("%w (run: studytrack login)", service.ErrAuth)
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return service.ErrNotFound
	}

	return errors.Wrap(err, "google tasks")
}
