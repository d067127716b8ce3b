// Package credentials resolves the platform access key and project
// identifier from the process environment and dotenv files in the working
// directory.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// Environment variable names
const (
	EnvSecretKey = "TRIGGER_SECRET_KEY"
	EnvProjectID = "TRIGGER_PROJECT_ID"
	EnvAPIURL    = "TRIGGER_API_URL"
)

// Dotenv files, in load order
const (
	BaseFile  = ".env"
	LocalFile = ".env.local"
)

// ErrMissingKey is returned when no secret key could be found
var ErrMissingKey = errors.New(EnvSecretKey + " not set")

// Credentials holds everything needed to talk to the platform
type Credentials struct {
	SecretKey string
	ProjectID string
	// APIURL is empty unless TRIGGER_API_URL is set
	APIURL string
}

// Resolver loads credentials. The zero value reads dotenv files from the
// current directory and looks up the real process environment.
type Resolver struct {
	// Dir holding .env and .env.local (default: working directory)
	Dir string
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(key string) (string, bool)
}

// Resolve merges the sources. Precedence, lowest first: .env, process
// environment, .env.local. A missing dotenv file is not an error; a
// malformed one is.
func (r Resolver) Resolve() (Credentials, error) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	base, err := readDotenv(filepath.Join(r.Dir, BaseFile))
	if err != nil {
		return Credentials{}, err
	}
	local, err := readDotenv(filepath.Join(r.Dir, LocalFile))
	if err != nil {
		return Credentials{}, err
	}

	get := func(key string) string {
		if v, ok := local[key]; ok {
			return v
		}
		if v, ok := lookup(key); ok {
			return v
		}
		return base[key]
	}

	return Credentials{
		SecretKey: get(EnvSecretKey),
		ProjectID: get(EnvProjectID),
		APIURL:    get(EnvAPIURL),
	}, nil
}

// Require returns ErrMissingKey when no secret key is present
func (c Credentials) Require() error {
	if c.SecretKey == "" {
		return ErrMissingKey
	}
	return nil
}

func readDotenv(path string) (gotenv.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return gotenv.Env{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return env, nil
}
