package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestResolveFromEnvironment(t *testing.T) {
	r := Resolver{
		Dir:       t.TempDir(),
		LookupEnv: envMap(map[string]string{EnvSecretKey: "tr_dev_env", EnvProjectID: "proj_env"}),
	}

	creds, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if creds.SecretKey != "tr_dev_env" {
		t.Errorf("SecretKey = %q", creds.SecretKey)
	}
	if creds.ProjectID != "proj_env" {
		t.Errorf("ProjectID = %q", creds.ProjectID)
	}
	if creds.APIURL != "" {
		t.Errorf("APIURL = %q, want empty", creds.APIURL)
	}
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BaseFile, "TRIGGER_SECRET_KEY=tr_dev_base\nTRIGGER_PROJECT_ID=proj_base\nTRIGGER_API_URL=http://base\n")
	writeFile(t, dir, LocalFile, "TRIGGER_SECRET_KEY=tr_dev_local\n")

	r := Resolver{
		Dir:       dir,
		LookupEnv: envMap(map[string]string{EnvSecretKey: "tr_dev_env", EnvProjectID: "proj_env"}),
	}

	creds, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// .env.local beats the environment
	if creds.SecretKey != "tr_dev_local" {
		t.Errorf("SecretKey = %q, want tr_dev_local", creds.SecretKey)
	}
	// environment beats .env
	if creds.ProjectID != "proj_env" {
		t.Errorf("ProjectID = %q, want proj_env", creds.ProjectID)
	}
	// .env fills what nothing else sets
	if creds.APIURL != "http://base" {
		t.Errorf("APIURL = %q, want http://base", creds.APIURL)
	}
}

func TestResolveMissingFiles(t *testing.T) {
	r := Resolver{Dir: t.TempDir(), LookupEnv: envMap(nil)}

	creds, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !errors.Is(creds.Require(), ErrMissingKey) {
		t.Errorf("Require() = %v, want ErrMissingKey", creds.Require())
	}
}

func TestResolveMalformedDotenv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BaseFile, "this line is not an assignment\n")

	_, err := Resolver{Dir: dir, LookupEnv: envMap(nil)}.Resolve()
	if err == nil {
		t.Fatal("Resolve() should fail on malformed .env")
	}
}

func TestRequire(t *testing.T) {
	if err := (Credentials{SecretKey: "tr_prod_x"}).Require(); err != nil {
		t.Errorf("Require() = %v, want nil", err)
	}
	if err := (Credentials{}).Require(); err == nil || err.Error() != "TRIGGER_SECRET_KEY not set" {
		t.Errorf("Require() = %v", err)
	}
}
