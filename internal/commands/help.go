package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
// With a topic it describes one command; "help commands" lists them all.
type HelpCmd struct {
	registry *Registry // nil means DefaultRegistry
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "studytrack help [commands | <command>]" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	reg := c.registry
	if reg == nil {
		reg = DefaultRegistry
	}

	switch {
	case len(args) == 0:
		fmt.Fprint(out, helpText)
	case len(args) > 1:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	case args[0] == "commands":
		for _, cmd := range reg.All() {
			fmt.Fprintf(out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
		}
	default:
		cmd, ok := reg.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage: %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
		}
	}
	return exitcode.Success
}

const helpText = `Usage:
  studytrack                                  Show the dashboard
  studytrack list [common flags] [--all]      Show the dashboard, or every assignment by due date
  studytrack add [common flags] [--subject <s>] --due <date> [--priority <p>]
                 [--notes <text>] [--subtask <text>]... <title...>
  studytrack done [common flags] <ref>        Toggle an assignment completed
  studytrack check [common flags] <ref>.<n>   Toggle subtask n of an assignment
  studytrack show [common flags] <ref>        Show one assignment
  studytrack stats [common flags]             Show completion analytics
  studytrack subjects [common flags]          List subjects with assignment counts
  studytrack export [common flags] [--list <list-name>] [--force]
  studytrack login [common flags]
  studytrack logout [common flags]
  studytrack help [commands | <command>]
  studytrack version

References:
  <n>              Number shown on the dashboard
  <id>             Assignment id or a unique id prefix (id:<id> for numeric ids)

Dates:
  YYYY-MM-DD (midnight in the configured timezone) or RFC 3339

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
