package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/apimgr/trigger/src/selection"
)

// Action is what a single invocation asked for
type Action int

const (
	ActionListTasks Action = iota
	ActionListLocal
	ActionListSchedules
	ActionListRuns
	ActionTriggerByID
	ActionTriggerByNumber
	ActionCancelByID
	ActionCancelByNumber
	ActionPick
)

func (a Action) String() string {
	switch a {
	case ActionListTasks:
		return "list-remote-tasks"
	case ActionListLocal:
		return "list-local-tasks"
	case ActionListSchedules:
		return "list-schedules"
	case ActionListRuns:
		return "list-runs"
	case ActionTriggerByID:
		return "trigger-by-id"
	case ActionTriggerByNumber:
		return "trigger-by-number"
	case ActionCancelByID:
		return "cancel-by-id"
	case ActionCancelByNumber:
		return "cancel-by-number"
	case ActionPick:
		return "pick-task"
	default:
		return "unknown"
	}
}

// Request is the parsed form of one invocation. It is built fresh from the
// arguments every time and never stored.
type Request struct {
	Action Action
	// Target is the literal identifier or the raw number as typed
	Target  string
	Number  int
	Search  string
	Local   bool
	Active  bool
	Payload json.RawMessage
	Yes     bool
	Open    bool
}

// UsageError reports malformed arguments
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ResolutionError reports a number that the last listing cannot answer
type ResolutionError struct {
	Kind   selection.Kind
	Number int
	Err    error
}

func (e *ResolutionError) Error() string {
	hint := ProjectName + " list"
	noun := "task"
	if e.Kind == selection.KindRuns {
		hint = ProjectName + " runs"
		noun = "run"
	}

	reason := "nothing has been listed yet"
	switch {
	case errors.Is(e.Err, selection.ErrKindMismatch):
		reason = fmt.Sprintf("the last listing did not show %ss", noun)
	case errors.Is(e.Err, selection.ErrOutOfRange):
		reason = fmt.Sprintf("the last listing has no %s #%d", noun, e.Number)
	}
	return fmt.Sprintf("cannot resolve %s #%d: %s. Run '%s' first", noun, e.Number, reason, hint)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// isNumber reports whether s is a purely numeric reference. Any all-digit
// token counts, so an all-digit task id can only be run by first listing it.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseNumber converts a numeric reference. Values too large for int map
// to 0, which never resolves.
func parseNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parsePayload validates a -p argument. An empty string means no payload.
func parsePayload(raw string) (json.RawMessage, error) {
	if raw == "" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &UsageError{Msg: fmt.Sprintf("invalid JSON payload: %v", err)}
	}
	return json.RawMessage(raw), nil
}

// newTriggerRequest builds a trigger request for a task id or a number from
// the last task listing
func newTriggerRequest(target, rawPayload string) (Request, error) {
	payload, err := parsePayload(rawPayload)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Action:  ActionTriggerByID,
		Target:  target,
		Payload: payload,
		Yes:     assumeYes,
		Open:    openAfter,
	}
	if isNumber(target) {
		req.Action = ActionTriggerByNumber
		req.Number = parseNumber(target)
	}
	return req, nil
}

// newCancelRequest builds a cancel request for a run id or a number from
// the last runs listing
func newCancelRequest(target string) Request {
	req := Request{
		Action: ActionCancelByID,
		Target: target,
		Yes:    assumeYes,
		Open:   openAfter,
	}
	if isNumber(target) {
		req.Action = ActionCancelByNumber
		req.Number = parseNumber(target)
	}
	return req
}
