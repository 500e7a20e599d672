// Package testutils provides test infrastructure for cribrum integration tests.
package testutils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the cribrum binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "cribrum")

	return agar.Setup(binaryPath)
}

// Manifest is a minimal two-file project manifest rooted next to the manifest itself.
const Manifest = `name: engine
compiler: vc2013
files:
  - path: src/a.cpp
    includes: [include]
    macros: [FOO=1]
  - path: third_party/zlib.c
    includes: [third_party/include]
`

// Workspace creates a scratch directory holding the manifest, a settings file and an empty
// global suppression directory, and returns its path.
func Workspace() (string, error) {
	dir, err := os.MkdirTemp("", "cribrum-test-")
	if err != nil {
		return "", err
	}

	for _, sub := range []string{"src", "third_party", "global"} {
		if err = os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", err
		}
	}

	if err = os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte(Manifest), 0o644); err != nil {
		return "", err
	}

	if err = os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("severities = \"warning\"\n"), 0o644); err != nil {
		return "", err
	}

	return dir, nil
}
