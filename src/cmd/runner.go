package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/trigger/src/api"
	"github.com/apimgr/trigger/src/credentials"
	"github.com/apimgr/trigger/src/display"
	"github.com/apimgr/trigger/src/model"
	"github.com/apimgr/trigger/src/scanner"
	"github.com/apimgr/trigger/src/selection"
	"github.com/apimgr/trigger/src/tui"
)

// runner carries everything one invocation needs
type runner struct {
	in     io.Reader
	out    io.Writer
	render *renderer
	store  *selection.Store
	env    display.Env

	creds    credentials.Credentials
	credsErr error
	platform Platform
}

func newRunner(cmd *cobra.Command) *runner {
	env := detectDisplay()
	color := !noColor && viper.GetBool("output.color") && env.HasColor

	r := &runner{
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		render: newRenderer(cmd.OutOrStdout(), getOutputFormat(), color),
		store:  newSelectionStore(),
		env:    env,
	}
	r.creds, r.credsErr = resolveCredentials()
	return r
}

// execute dispatches a request
func execute(cmd *cobra.Command, req Request) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r := newRunner(cmd)
	slog.Debug("dispatch", "action", req.Action.String(), "target", req.Target)

	switch req.Action {
	case ActionListTasks:
		return r.listTasks(ctx, req.Search)
	case ActionListLocal:
		return r.listLocal(req.Search)
	case ActionListSchedules:
		return r.listSchedules(ctx)
	case ActionListRuns:
		return r.listRuns(ctx, req.Active)
	case ActionTriggerByID, ActionTriggerByNumber:
		return r.trigger(ctx, req)
	case ActionCancelByID, ActionCancelByNumber:
		return r.cancel(ctx, req)
	case ActionPick:
		return r.pick(ctx, req)
	default:
		return fmt.Errorf("unhandled action %v", req.Action)
	}
}

// client returns the API client, failing when no key is configured
func (r *runner) client() (Platform, error) {
	if r.platform != nil {
		return r.platform, nil
	}
	if r.credsErr != nil {
		return nil, r.credsErr
	}

	creds := r.creds
	if token != "" {
		creds.SecretKey = token
	}
	if err := creds.Require(); err != nil {
		return nil, err
	}

	baseURL := viper.GetString("api.url")
	if r.creds.APIURL != "" {
		baseURL = r.creds.APIURL
	}

	api.ProjectName = ProjectName
	api.Version = Version
	r.platform = newPlatform(baseURL, creds.SecretKey, viper.GetInt("api.timeout"))
	return r.platform, nil
}

// saveSelection replaces the numbered listing. Failure only means numbers
// will not resolve next time.
func (r *runner) saveSelection(kind selection.Kind, entries []selection.Entry) {
	if err := r.store.Save(kind, entries); err != nil {
		slog.Warn("could not save selection", "path", r.store.Path(), "error", err)
		return
	}
	slog.Info("selection saved", "kind", string(kind), "count", len(entries))
}

func taskEntries(tasks []model.Task) []selection.Entry {
	entries := make([]selection.Entry, len(tasks))
	for i, t := range tasks {
		entries[i] = selection.Entry{ID: t.ID}
	}
	return entries
}

func tasksHeading(search string, local bool) string {
	heading := "Tasks"
	if search != "" {
		heading = fmt.Sprintf("Tasks matching '%s'", search)
	}
	if local {
		heading += " (local)"
	}
	return heading + ":"
}

// remoteTasks derives the task listing from recent runs
func (r *runner) remoteTasks(ctx context.Context, search string) ([]model.Task, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	runs, err := client.ListRuns(ctx, viper.GetInt("list.page_size"))
	if err != nil {
		return nil, err
	}
	return api.TasksFromRuns(runs, search), nil
}

// localTasks scans the configured task folder
func (r *runner) localTasks(search string) []model.Task {
	s := scanner.New(
		viper.GetString("scanner.root"),
		viper.GetStringSlice("scanner.include"),
		viper.GetStringSlice("scanner.exclude"),
	)

	tasks := s.Scan(search)
	slog.Debug("local scan", "root", s.Root, "found", len(tasks))
	return tasks
}

func (r *runner) listTasks(ctx context.Context, search string) error {
	tasks, err := r.remoteTasks(ctx, search)
	if err != nil {
		return err
	}

	r.saveSelection(selection.KindTasks, taskEntries(tasks))
	return r.render.tasks(tasksHeading(search, false), tasks)
}

func (r *runner) listLocal(search string) error {
	tasks := r.localTasks(search)

	r.saveSelection(selection.KindTasks, taskEntries(tasks))
	return r.render.tasks(tasksHeading(search, true), tasks)
}

func (r *runner) listSchedules(ctx context.Context) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	schedules, err := client.ListSchedules(ctx)
	if err != nil {
		return err
	}

	// numbers after 'schedules' run the scheduled task
	entries := make([]selection.Entry, len(schedules))
	for i, s := range schedules {
		entries[i] = selection.Entry{ID: s.Task, Extra: s.ID}
	}
	r.saveSelection(selection.KindTasks, entries)
	return r.render.schedules(schedules)
}

func (r *runner) listRuns(ctx context.Context, activeOnly bool) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	runs, err := client.ListRuns(ctx, viper.GetInt("runs.page_size"))
	if err != nil {
		return err
	}
	if activeOnly {
		runs = api.FilterActive(runs)
	}

	entries := make([]selection.Entry, len(runs))
	for i, run := range runs {
		entries[i] = selection.Entry{ID: run.ID, Extra: run.TaskIdentifier}
	}
	r.saveSelection(selection.KindRuns, entries)

	heading := "Recent runs:"
	if activeOnly {
		heading = "In-progress runs:"
	}
	return r.render.runs(heading, runs)
}

// resolve turns a numbered reference into an identifier
func (r *runner) resolve(kind selection.Kind, number int) (string, error) {
	entry, err := r.store.Resolve(kind, number)
	if err != nil {
		return "", &ResolutionError{Kind: kind, Number: number, Err: err}
	}
	slog.Debug("resolved selection", "kind", string(kind), "number", number, "id", entry.ID)
	return entry.ID, nil
}

func (r *runner) trigger(ctx context.Context, req Request) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	taskID := req.Target
	if req.Action == ActionTriggerByNumber {
		if taskID, err = r.resolve(selection.KindTasks, req.Number); err != nil {
			return err
		}
	}

	if !req.Yes && !confirm(ctx, r.in, r.out, fmt.Sprintf("Trigger '%s'?", taskID)) {
		fmt.Fprintln(r.out, "Cancelled")
		return nil
	}

	resp, err := client.Trigger(ctx, taskID, req.Payload)
	if err != nil {
		return err
	}

	r.render.success(fmt.Sprintf("Triggered %s", taskID))
	r.showRun(resp.ID, req.Open)
	return nil
}

func (r *runner) cancel(ctx context.Context, req Request) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	runID := req.Target
	if req.Action == ActionCancelByNumber {
		if runID, err = r.resolve(selection.KindRuns, req.Number); err != nil {
			return err
		}
	}

	if !req.Yes && !confirm(ctx, r.in, r.out, fmt.Sprintf("Cancel run '%s'?", runID)) {
		fmt.Fprintln(r.out, "Cancelled")
		return nil
	}

	if err := client.CancelRun(ctx, runID); err != nil {
		return err
	}

	r.render.success(fmt.Sprintf("Cancelled %s", runID))
	r.showRun(runID, req.Open)
	return nil
}

// pick lists tasks, lets the user choose one interactively and triggers it.
// The listing is saved as usual so its numbers stay valid afterwards.
func (r *runner) pick(ctx context.Context, req Request) error {
	if !r.env.StdinTerminal || !r.env.StdoutTerminal {
		return &UsageError{Msg: fmt.Sprintf("pick needs an interactive terminal; use '%s list' and a number instead", ProjectName)}
	}

	var tasks []model.Task
	if req.Local {
		tasks = r.localTasks(req.Search)
	} else {
		var err error
		if tasks, err = r.remoteTasks(ctx, req.Search); err != nil {
			return err
		}
	}
	r.saveSelection(selection.KindTasks, taskEntries(tasks))

	heading := tasksHeading(req.Search, req.Local)
	if len(tasks) == 0 {
		return r.render.tasks(heading, tasks)
	}

	items := make([]tui.Item, len(tasks))
	for i, t := range tasks {
		items[i] = tui.Item{ID: t.ID, Status: t.Status}
	}
	taskID, err := pickTask(r.in, r.out, heading, items)
	if err != nil {
		return err
	}
	if taskID == "" {
		fmt.Fprintln(r.out, "Cancelled")
		return nil
	}

	req.Action = ActionTriggerByID
	req.Target = taskID
	return r.trigger(ctx, req)
}

// showRun prints the dashboard link and optionally opens it. Nothing here
// affects the outcome of the command.
func (r *runner) showRun(runID string, open bool) {
	url := api.RunURL(viper.GetString("dashboard.url"), r.creds.ProjectID, runID)
	if url == "" {
		if open {
			slog.Info("no dashboard url to open", "run", runID, "project_set", r.creds.ProjectID != "")
		}
		return
	}
	r.render.link(url)

	if !open {
		return
	}
	if r.env.CanOpenURL() {
		err := openURL(url)
		if err == nil {
			return
		}
		slog.Warn("could not open browser", "error", err)
	}
	fmt.Fprintf(r.out, "Open manually: %s\n", url)
}
