package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/apimgr/trigger/src/api"
	"github.com/apimgr/trigger/src/credentials"
	"github.com/apimgr/trigger/src/display"
	"github.com/apimgr/trigger/src/tui"
)

// fakePlatform records every call made through the Platform interface
type fakePlatform struct {
	runs      []api.Run
	schedules []api.Schedule
	runID     string
	err       error

	calls   []string
	payload json.RawMessage
	baseURL string
	token   string
}

func (f *fakePlatform) ListRuns(ctx context.Context, pageSize int) ([]api.Run, error) {
	f.calls = append(f.calls, "ListRuns")
	if f.err != nil {
		return nil, f.err
	}
	return f.runs, nil
}

func (f *fakePlatform) ListSchedules(ctx context.Context) ([]api.Schedule, error) {
	f.calls = append(f.calls, "ListSchedules")
	if f.err != nil {
		return nil, f.err
	}
	return f.schedules, nil
}

func (f *fakePlatform) Trigger(ctx context.Context, taskID string, payload json.RawMessage) (*api.TriggerResponse, error) {
	f.calls = append(f.calls, "Trigger:"+taskID)
	f.payload = payload
	if f.err != nil {
		return nil, f.err
	}
	return &api.TriggerResponse{ID: f.runID}, nil
}

func (f *fakePlatform) CancelRun(ctx context.Context, runID string) error {
	f.calls = append(f.calls, "CancelRun:"+runID)
	return f.err
}

// harness isolates one test: HOME, working directory, environment and the
// package hooks
type harness struct {
	platform *fakePlatform
	env      display.Env
	openErr  error
	opened   []string
	pick     string
	pickErr  error
	picked   []tui.Item
	home     string
	workdir  string
}

func setup(t *testing.T) *harness {
	t.Helper()

	h := &harness{platform: &fakePlatform{runID: "run_cm1new0000001"}}
	h.home = t.TempDir()
	h.workdir = t.TempDir()

	t.Setenv("HOME", h.home)
	t.Setenv("APPDATA", h.home)
	t.Setenv("LOCALAPPDATA", h.home)
	t.Setenv(credentials.EnvSecretKey, "tr_dev_test")
	t.Setenv(credentials.EnvProjectID, "")
	t.Setenv(credentials.EnvAPIURL, "")
	chdirForTest(t, h.workdir)

	origPlatform, origDetect, origOpen, origPick := newPlatform, detectDisplay, openURL, pickTask
	t.Cleanup(func() {
		newPlatform, detectDisplay, openURL, pickTask = origPlatform, origDetect, origOpen, origPick
	})

	newPlatform = func(baseURL, token string, timeout int) Platform {
		h.platform.baseURL = baseURL
		h.platform.token = token
		return h.platform
	}
	detectDisplay = func() display.Env { return h.env }
	openURL = func(url string) error {
		h.opened = append(h.opened, url)
		return h.openErr
	}
	pickTask = func(in io.Reader, out io.Writer, title string, items []tui.Item) (string, error) {
		h.picked = items
		return h.pick, h.pickErr
	}
	return h
}

// run executes the command tree with args and stdin, returning stdout
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return h.runWith(t, context.Background(), strings.NewReader(stdin), args...)
}

// runWith executes the command tree under ctx reading stdin from in
func (h *harness) runWith(t *testing.T, ctx context.Context, in io.Reader, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)

	err := Execute(ctx)
	return out.String(), err
}

// resetFlags puts every flag of the tree back to its default
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (h *harness) callCount(prefix string) int {
	n := 0
	for _, c := range h.platform.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			panic("testing: chdirForTest: " + err.Error())
		}
	})
}
