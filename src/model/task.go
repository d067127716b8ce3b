// Package model defines the records shared by the API client, the local
// scanner and the command layer.
package model

// Task is a named unit of work. Status and Updated come from the most recent
// run when the task was discovered remotely; Path is set for tasks found by
// the local scanner.
type Task struct {
	ID      string `json:"id"`
	Status  string `json:"status,omitempty"`
	Updated string `json:"updated,omitempty"`
	Path    string `json:"path,omitempty"`
}
