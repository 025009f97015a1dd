package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
)

func init() {
	Register(&CheckCmd{})
}

// CheckCmd implements the check command, which toggles one subtask.
// Subtasks of a completed assignment are locked until it is reopened.
type CheckCmd struct{}

func (c *CheckCmd) Name() string       { return "check" }
func (c *CheckCmd) Aliases() []string  { return []string{"tick"} }
func (c *CheckCmd) Synopsis() string   { return "Toggle a subtask" }
func (c *CheckCmd) Usage() string      { return "studytrack check <ref>.<n> | <ref> <n>" }
func (c *CheckCmd) NeedsService() bool { return true }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, n, err := ParseSubtaskRef(args)
	if err != nil {
		return reportRefError(err, errOut)
	}

	target, code := lookupAssignment(ctx, cfg, svc, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	if n > len(target.Subtasks) {
		fmt.Fprintf(errOut, "error: subtask number out of range: %d\n", n)
		return exitcode.UserError
	}
	if target.Completed {
		fmt.Fprintln(errOut, "error: assignment is completed (run: studytrack done to reopen it)")
		return exitcode.UserError
	}

	st := target.Subtasks[n-1]
	updated, err := svc.ToggleSubtask(ctx, target.ID, st.ID)
	if err != nil {
		return reportMutationError(err, ref, errOut)
	}

	st, _ = updated.Subtask(st.ID)
	cfg.Log().Debug("toggled subtask", zap.String("id", updated.ID), zap.String("subtask", st.ID), zap.Bool("completed", st.Completed))
	if !cfg.Quiet {
		if st.Completed {
			fmt.Fprintln(out, "checked")
		} else {
			fmt.Fprintln(out, "unchecked")
		}
	}
	return exitcode.Success
}
