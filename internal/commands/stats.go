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
	"studytrack/internal/views"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd implements the stats command.
type StatsCmd struct{}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return []string{"analytics"} }
func (c *StatsCmd) Synopsis() string   { return "Show completion analytics" }
func (c *StatsCmd) Usage() string      { return "studytrack stats" }
func (c *StatsCmd) NeedsService() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	snapshot, err := svc.Assignments(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	now := cfg.Now()
	output.FormatStats(out,
		views.Summarize(snapshot, now),
		views.WeeklyTrend(snapshot, cfg.Location()),
		views.SubjectDistribution(snapshot),
	)
	return exitcode.Success
}
