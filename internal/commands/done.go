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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed
// assignment reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle an assignment completed" }
func (c *DoneCmd) Usage() string      { return "studytrack done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseRef(args)
	if err != nil {
		return reportRefError(err, errOut)
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	target, code := lookupAssignment(ctx, cfg, svc, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	updated, err := svc.ToggleAssignment(ctx, target.ID)
	if err != nil {
		return reportMutationError(err, ref, errOut)
	}

	cfg.Log().Debug("toggled assignment", zap.String("id", updated.ID), zap.Bool("completed", updated.Completed))
	if !cfg.Quiet {
		if updated.Completed {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
