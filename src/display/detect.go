// Package display detects what the current terminal session can do: whether
// stdin is interactive, whether colors are wanted, and whether a graphical
// session is available for opening URLs.
package display

import (
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Package-level function variables for testing
var (
	isTerminalFunc = func(fd uintptr) bool {
		return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
	}
	getGOOSFunc = func() string { return runtime.GOOS }
	getenvFunc  = os.Getenv
)

// DisplayType represents the type of graphical display available
type DisplayType string

const (
	DisplayTypeNone    DisplayType = "none"
	DisplayTypeX11     DisplayType = "x11"
	DisplayTypeWayland DisplayType = "wayland"
	DisplayTypeWindows DisplayType = "windows"
	DisplayTypeMacOS   DisplayType = "macos"
)

// Env represents the detected session environment
type Env struct {
	HasDisplay  bool
	DisplayType DisplayType

	StdinTerminal  bool
	StdoutTerminal bool

	IsSSH    bool
	OS       string
	HasColor bool
}

// Detect inspects the current process environment
func Detect() Env {
	env := Env{
		OS:          getGOOSFunc(),
		DisplayType: DisplayTypeNone,
	}

	env.StdinTerminal = isTerminalFunc(os.Stdin.Fd())
	env.StdoutTerminal = isTerminalFunc(os.Stdout.Fd())

	env.IsSSH = getenvFunc("SSH_CLIENT") != "" || getenvFunc("SSH_TTY") != "" || getenvFunc("SSH_CONNECTION") != ""
	env.HasColor = env.StdoutTerminal && detectColorSupport()

	env.detectPlatformDisplay()
	return env
}

// CanOpenURL reports whether launching a browser is likely to reach the user
func (e Env) CanOpenURL() bool {
	return e.HasDisplay && !e.IsSSH
}

// detectColorSupport honours NO_COLOR and dumb terminals
func detectColorSupport() bool {
	if getenvFunc("NO_COLOR") != "" {
		return false
	}
	if getenvFunc("FORCE_COLOR") != "" || getenvFunc("COLORTERM") != "" {
		return true
	}
	termEnv := getenvFunc("TERM")
	return termEnv != "" && termEnv != "dumb"
}

func (e *Env) detectPlatformDisplay() {
	switch e.OS {
	case "darwin":
		// macOS has a native display unless started as a launch daemon
		if getenvFunc("XPC_SERVICE_NAME") != "" && os.Getppid() == 1 {
			return
		}
		e.HasDisplay = true
		e.DisplayType = DisplayTypeMacOS
	case "windows":
		if strings.EqualFold(getenvFunc("SESSIONNAME"), "Services") {
			return
		}
		e.HasDisplay = true
		e.DisplayType = DisplayTypeWindows
	default:
		// Wayland is preferred over X11
		if getenvFunc("WAYLAND_DISPLAY") != "" {
			e.HasDisplay = true
			e.DisplayType = DisplayTypeWayland
			return
		}
		if getenvFunc("DISPLAY") != "" {
			e.HasDisplay = true
			e.DisplayType = DisplayTypeX11
		}
	}
}
