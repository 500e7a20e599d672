package tests_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"

	"github.com/farcloser/cribrum/tests/testutils"
)

// workspace sets up a scratch project and records its location in the "dir" label.
func workspace(data test.Data, helpers test.Helpers) {
	dir, err := testutils.Workspace()
	if err != nil {
		helpers.T().Log(fmt.Sprintf("failed to create workspace: %v", err))
		helpers.T().FailNow()
	}

	data.Labels().Set("dir", dir)
}

func removeWorkspace(data test.Data, _ test.Helpers) {
	if dir := data.Labels().Get("dir"); dir != "" {
		_ = os.RemoveAll(dir)
	}
}

// projectArgs are the flags pointing a command at the scratch workspace.
func projectArgs(data test.Data) []string {
	dir := data.Labels().Get("dir")

	return []string{
		"--project", filepath.Join(dir, "engine.yaml"),
		"--settings", filepath.Join(dir, "settings.toml"),
		"--global-dir", filepath.Join(dir, "global"),
	}
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output does not contain a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectCount returns a comparator verifying substr occurs exactly n times.
func expectCount(substr string, n int) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if got := strings.Count(stdout, substr); got != n {
			testing.Log(fmt.Sprintf("expected %d occurrences of %q, got %d in output:\n%s", n, substr, got, stdout))
			testing.Fail()
		}
	}
}

// expectFileContains returns a comparator verifying a file written by the command holds a line.
func expectFileContains(path, line string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		content, err := os.ReadFile(path) //nolint:gosec // test fixture path
		if err != nil {
			testing.Log(fmt.Sprintf("reading %s: %v", path, err))
			testing.Fail()

			return
		}

		for _, candidate := range strings.Split(string(content), "\n") {
			if candidate == line {
				return
			}
		}

		testing.Log(fmt.Sprintf("expected line %q not found in %s:\n%s", line, path, content))
		testing.Fail()
	}
}
