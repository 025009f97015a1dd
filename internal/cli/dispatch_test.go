package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"studytrack/internal/cli"
	"studytrack/internal/commands"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
	"studytrack/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	stdout, stderr, code := run(t, dispatcher, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
	if svc.Closed() {
		t.Error("help should not open the service")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "studytrack 0.1.0\n" {
		t.Errorf("expected 'studytrack 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	_, stderr, code := run(t, dispatcher, "add", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -due\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsShowsDashboard(t *testing.T) {
	svc := testutil.NewSeededFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	stdout, stderr, code := run(t, dispatcher)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Recently Completed (1)") {
		t.Errorf("expected dashboard output, got %q", stdout)
	}
	if !svc.Closed() {
		t.Error("expected service to be closed after the command")
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("disk on fire")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: disk on fire\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_InvalidTimezone(t *testing.T) {
	t.Setenv("STUDYTRACK_TIMEZONE", "Mars/Olympus")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.LocalFactory)

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid timezone: Mars/Olympus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLocalFactory_PersistsAcrossRuns(t *testing.T) {
	for _, driver := range []string{"file", "bolt", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			t.Setenv("STUDYTRACK_STORAGE_DRIVER", driver)
			dir := t.TempDir()
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.LocalFactory)

			stdout, stderr, code := run(t, dispatcher, "add", "--config", dir,
				"--due", "2031-05-01", "--subject", "science", "--subtask", "Collect data", "Lab report")
			if code != exitcode.Success {
				t.Fatalf("add: exit code %d, stderr %q", code, stderr)
			}
			id := strings.TrimSpace(stdout)
			if id == "" {
				t.Fatal("add should print the new id")
			}

			stdout, stderr, code = run(t, dispatcher, "show", "--config", dir, "id:"+id)
			if code != exitcode.Success {
				t.Fatalf("show: exit code %d, stderr %q", code, stderr)
			}
			for _, want := range []string{"Lab report", "subject:   Science", "priority:  Medium", "[ ] Collect data"} {
				if !strings.Contains(stdout, want) {
					t.Errorf("show output missing %q:\n%s", want, stdout)
				}
			}

			_, stderr, code = run(t, dispatcher, "done", "--config", dir, "id:"+id)
			if code != exitcode.Success {
				t.Fatalf("done: exit code %d, stderr %q", code, stderr)
			}
			stdout, _, _ = run(t, dispatcher, "show", "--config", dir, "id:"+id)
			if !strings.Contains(stdout, "[x] Collect data") {
				t.Errorf("expected subtask completed by cascade:\n%s", stdout)
			}
		})
	}
}

func TestLocalFactory_MemoryDriverStartsFromSeed(t *testing.T) {
	t.Setenv("STUDYTRACK_STORAGE_DRIVER", "memory")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.LocalFactory)

	stdout, stderr, code := run(t, dispatcher, "stats", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Total:            6\n") {
		t.Errorf("expected seed totals, got %q", stdout)
	}
}
