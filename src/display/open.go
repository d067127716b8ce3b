package display

import (
	"fmt"
	"os/exec"
)

// runCommand is swapped in tests
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// OpenURL opens url with the platform's default handler
func OpenURL(url string) error {
	name, args := openCommand(getGOOSFunc(), url)
	if err := runCommand(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
