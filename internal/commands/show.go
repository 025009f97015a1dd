package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/output"
	"studytrack/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Show one assignment" }
func (c *ShowCmd) Usage() string      { return "studytrack show <ref>" }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseRef(args)
	if err != nil {
		return reportRefError(err, errOut)
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	a, code := lookupAssignment(ctx, cfg, svc, ref, errOut)
	if code != exitcode.Success {
		return code
	}

	output.FormatDetail(out, a, cfg.Now())
	return exitcode.Success
}
