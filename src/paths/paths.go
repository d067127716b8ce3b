// Package paths provides CLI directory and file path resolution.
// Linux and macOS follow XDG-style locations under $HOME, Windows uses
// APPDATA/LOCALAPPDATA.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	projectOrg  = "apimgr"
	projectName = "trigger"
)

// ConfigDir returns the CLI config directory
// Linux: ~/.config/apimgr/trigger/
// Windows: %APPDATA%\apimgr\trigger\
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), projectOrg, projectName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", projectOrg, projectName)
}

// CacheDir returns the CLI cache directory
// Linux: ~/.cache/apimgr/trigger/
// Windows: %LOCALAPPDATA%\apimgr\trigger\cache\
func CacheDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "cache")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", projectOrg, projectName)
}

// LogDir returns the CLI log directory
// Linux: ~/.local/log/apimgr/trigger/
// Windows: %LOCALAPPDATA%\apimgr\trigger\log\
func LogDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "log", projectOrg, projectName)
}

// ConfigFile returns the CLI config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "cli.yml")
}

// LogFile returns the CLI log file path
func LogFile() string {
	return filepath.Join(LogDir(), "cli.log")
}

// SelectionFile returns the path of the numbered-selection file written by
// listing commands. It lives in the user cache dir so it is the same no matter
// which directory the command runs from.
func SelectionFile() string {
	return filepath.Join(CacheDir(), "selection.json")
}

// EnsureDirs creates all CLI directories with correct permissions.
// Called on every startup before any file operations.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		CacheDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
		// Ensure permissions even if dir existed
		if err := os.Chmod(dir, 0700); err != nil {
			return fmt.Errorf("chmod dir %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureFile creates the parent directory of path.
// MUST be called before any file creation.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// ResolveConfigPath resolves the --config flag to an absolute path.
// Relative names are resolved from ConfigDir.
func ResolveConfigPath(configFlag string) string {
	if configFlag == "" {
		return ConfigFile()
	}

	configFlag = ExpandHome(configFlag)
	if filepath.IsAbs(configFlag) {
		return addExtIfNeeded(configFlag)
	}
	return addExtIfNeeded(filepath.Join(ConfigDir(), configFlag))
}

// addExtIfNeeded adds .yml extension if no extension provided
func addExtIfNeeded(path string) string {
	ext := filepath.Ext(path)
	if ext != "" {
		return path
	}

	// No extension - prefer an existing .yml, then .yaml
	ymlPath := path + ".yml"
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}
	yamlPath := path + ".yaml"
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return ymlPath
}
