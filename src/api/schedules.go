package api

import (
	"context"
	"strings"
)

// Schedule is a recurring trigger bound to a task
type Schedule struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Active    bool      `json:"active"`
	Generator Generator `json:"generator"`
	NextRun   string    `json:"nextRun,omitempty"`
}

// Generator describes when a schedule fires
type Generator struct {
	Type        string `json:"type,omitempty"`
	Expression  string `json:"expression"`
	Description string `json:"description,omitempty"`
}

// NextRunDisplay formats NextRun as "YYYY-MM-DD HH:MM"
func (s Schedule) NextRunDisplay() string {
	next := s.NextRun
	if len(next) > 16 {
		next = next[:16]
	}
	return strings.Replace(next, "T", " ", 1)
}

// ListSchedulesResponse is the schedules envelope
type ListSchedulesResponse struct {
	Data []Schedule `json:"data"`
}

// ListSchedules returns all schedules of the project
func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var result ListSchedulesResponse
	if err := c.doJSON(ctx, "GET", "/api/v1/schedules", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
