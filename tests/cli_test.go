package tests_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/cribrum/tests/testutils"
)

func TestArgsCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "args without project fails",
			Command:     test.Command("args"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "args for the whole project forces all configurations",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(append([]string{"args"}, projectArgs(data)...)...)
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				dir := data.Labels().Get("dir")

				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("--enable=warning"),
						expectContains("--suppress=unmatchedSuppression"),
						expectContains(`--relative-paths="`+dir+`"`),
						expectContains(`"`+filepath.Join(dir, "src", "a.cpp")+`"`),
						expectContains(`-I"`+filepath.Join(dir, "include")+`"`),
						expectCount("--force", 1),
						expectNotContains("-D"),
					),
				}
			},
		},
		{
			Description: "args in saved-file mode emits the active configuration macros",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				args := append([]string{"args", "--saved", "--x64"}, projectArgs(data)...)

				return helpers.Command(append(args, "src/a.cpp")...)
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("-DFOO=1"),
						expectContains("-D_MSC_VER=1800"),
						expectContains("-D_WIN64"),
						expectNotContains("--force"),
						expectNotContains("zlib.c"),
					),
				}
			},
		},
		{
			Description: "args honors skip-file masks from project suppressions",
			Setup: func(data test.Data, helpers test.Helpers) {
				workspace(data, helpers)

				suppressions := filepath.Join(data.Labels().Get("dir"), "engine_suppressions.cfg")
				if err := os.WriteFile(suppressions, []byte("skip-file:third_party\nmissingInclude\n"), 0o644); err != nil {
					helpers.T().FailNow()
				}
			},
			Cleanup: removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(append([]string{"args"}, projectArgs(data)...)...)
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				dir := data.Labels().Get("dir")

				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("--suppress=missingInclude"),
						expectContains(`"`+filepath.Join(dir, "third_party", "zlib.c")+`"`),
						expectNotContains(filepath.Join(dir, "third_party", "include")),
					),
				}
			},
		},
		{
			Description: "args rejects files outside the project",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command(append(append([]string{"args"}, projectArgs(data)...), "elsewhere.cpp")...)
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
	}

	testCase.Run(t)
}

func TestSuppressCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "suppress without a diagnostic line fails",
			Command:     test.Command("suppress"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "suppress with an unknown scope fails",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				args := append([]string{"suppress", "--scope", "everywhere"}, projectArgs(data)...)

				return helpers.Command(append(args, "a.cpp|12|error|nullPointer|msg")...)
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "suppress writes a project rule",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				args := append([]string{"suppress", "--scope", "this-message"}, projectArgs(data)...)

				return helpers.Command(append(args, "src/a.cpp|12|error|nullPointer|msg")...)
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expectFileContains(
						filepath.Join(data.Labels().Get("dir"), "engine_suppressions.cfg"),
						"nullPointer:a.cpp:12",
					),
				}
			},
		},
		{
			Description: "suppress writes a global rule",
			Setup:       workspace,
			Cleanup:     removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				args := append([]string{"suppress", "--scope", "type-global"}, projectArgs(data)...)

				return helpers.Command(append(args, "src/a.cpp|12|error|nullPointer|msg")...)
			},
			Expected: func(data test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expectFileContains(
						filepath.Join(data.Labels().Get("dir"), "global", "suppressions.cfg"),
						"nullPointer",
					),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestParseCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "parse with too many arguments fails",
			Command:     test.Command("parse", "a", "b"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "parse nonexistent file fails",
			Command:     test.Command("parse", "/nonexistent/path/output.txt"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "parse reports diagnostics and skips noise",
			Setup: func(data test.Data, helpers test.Helpers) {
				workspace(data, helpers)

				output := "Checking a.cpp ...\n" +
					"a.cpp|12|error|nullPointer|Null pointer dereference\n" +
					"a.cpp||style|unusedVariable|Unused variable: x\n"

				path := filepath.Join(data.Labels().Get("dir"), "output.txt")
				if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
					helpers.T().FailNow()
				}

				data.Labels().Set("output", path)
			},
			Cleanup: removeWorkspace,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("parse", "--format", "json", "--project-name", "engine", data.Labels().Get("output"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("nullPointer"),
						expectContains("unusedVariable"),
						expectNotContains("Checking"),
					),
				}
			},
		},
	}

	testCase.Run(t)
}
