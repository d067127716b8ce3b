package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/apimgr/trigger/src/model"
)

// Run is one execution of a task
type Run struct {
	ID             string `json:"id"`
	TaskIdentifier string `json:"taskIdentifier"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// ShortID returns the last 8 characters of the run id for display
func (r Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[len(r.ID)-8:]
	}
	return r.ID
}

// IsActive reports whether the run has not reached a terminal status
func (r Run) IsActive() bool {
	return !model.IsFinished(r.Status)
}

// ListRunsResponse is the paginated runs envelope
type ListRunsResponse struct {
	Data []Run `json:"data"`
}

// TriggerRequest is the body of a trigger call
type TriggerRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// TriggerResponse carries the id of the created run
type TriggerResponse struct {
	ID string `json:"id"`
}

// ListRuns returns the most recent runs, newest first
func (c *Client) ListRuns(ctx context.Context, pageSize int) ([]Run, error) {
	params := url.Values{}
	if pageSize > 0 {
		params.Set("page[size]", strconv.Itoa(pageSize))
	}

	path := "/api/v1/runs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result ListRunsResponse
	if err := c.doJSON(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Trigger starts a run of taskID. A nil payload sends an empty object.
func (c *Client) Trigger(ctx context.Context, taskID string, payload json.RawMessage) (*TriggerResponse, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	var result TriggerResponse
	path := "/api/v1/tasks/" + url.PathEscape(taskID) + "/trigger"
	if err := c.doJSON(ctx, "POST", path, TriggerRequest{Payload: payload}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelRun cancels an in-progress run
func (c *Client) CancelRun(ctx context.Context, runID string) error {
	return c.doJSON(ctx, "POST", "/api/v2/runs/"+url.PathEscape(runID)+"/cancel", nil, nil)
}

// FilterActive keeps only runs that are still in progress
func FilterActive(runs []Run) []Run {
	active := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	return active
}

// TasksFromRuns derives a task listing from recent runs. Each task appears
// once, in the order of its first (most recent) run, carrying that run's
// status. A non-empty search keeps tasks whose id contains it, ignoring case.
func TasksFromRuns(runs []Run, search string) []model.Task {
	search = strings.ToLower(search)
	seen := make(map[string]bool)
	tasks := make([]model.Task, 0)

	for _, r := range runs {
		if r.TaskIdentifier == "" || seen[r.TaskIdentifier] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.TaskIdentifier), search) {
			continue
		}
		seen[r.TaskIdentifier] = true

		updated := r.UpdatedAt
		if len(updated) > 10 {
			updated = updated[:10]
		}
		tasks = append(tasks, model.Task{
			ID:      r.TaskIdentifier,
			Status:  r.Status,
			Updated: updated,
		})
	}
	return tasks
}
