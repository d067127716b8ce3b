package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir() returned empty string")
	}
	if !strings.Contains(dir, projectOrg) {
		t.Errorf("ConfigDir() = %q, should contain %q", dir, projectOrg)
	}
	if !strings.Contains(dir, projectName) {
		t.Errorf("ConfigDir() = %q, should contain %q", dir, projectName)
	}
}

func TestCacheDirUsesHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses LOCALAPPDATA on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	want := filepath.Join(home, ".cache", projectOrg, projectName)
	if got := CacheDir(); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}

func TestSelectionFileIndependentOfWorkingDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOCALAPPDATA", home)

	first := SelectionFile()

	chdirForTest(t, t.TempDir())
	second := SelectionFile()

	if first != second {
		t.Errorf("SelectionFile() changed with working dir: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, CacheDir()) {
		t.Errorf("SelectionFile() = %q, want it under %q", first, CacheDir())
	}
}

func TestLogFile(t *testing.T) {
	if filepath.Base(LogFile()) != "cli.log" {
		t.Errorf("LogFile() = %q, want cli.log", LogFile())
	}
}

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)
	t.Setenv("LOCALAPPDATA", home)

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}

	for _, dir := range []string{ConfigDir(), CacheDir(), LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("stat %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestEnsureFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "file.json")

	if err := EnsureFile(path); err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/cfg.yml", filepath.Join(home, "cfg.yml")},
		{"~", home},
		{"/etc/cfg.yml", "/etc/cfg.yml"},
		{"relative.yml", "relative.yml"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)

	if got := ResolveConfigPath(""); got != ConfigFile() {
		t.Errorf("ResolveConfigPath(\"\") = %q, want %q", got, ConfigFile())
	}

	abs := filepath.Join(home, "custom.yaml")
	if got := ResolveConfigPath(abs); got != abs {
		t.Errorf("ResolveConfigPath(%q) = %q", abs, got)
	}

	if got := ResolveConfigPath("work"); got != filepath.Join(ConfigDir(), "work.yml") {
		t.Errorf("ResolveConfigPath(work) = %q", got)
	}
}

func TestResolveConfigPathPrefersExistingYaml(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "cli")
	if err := os.WriteFile(base+".yaml", []byte("x: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := ResolveConfigPath(base); got != base+".yaml" {
		t.Errorf("ResolveConfigPath(%q) = %q, want .yaml", base, got)
	}
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
