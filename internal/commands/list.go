package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"studytrack/internal/assignment"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/output"
	"studytrack/internal/service"
	"studytrack/internal/views"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `studytrack` (no args) and `studytrack list`.
type ListCmd struct {
	all bool
}

// SetAll selects the flat due-date listing (for testing).
func (c *ListCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "Show the dashboard" }
func (c *ListCmd) Usage() string      { return "studytrack list [--all]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
	fs.BoolVar(&c.all, "a", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	snapshot, err := svc.Assignments(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if len(snapshot) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no assignments found")
		}
		return exitcode.Success
	}

	now := cfg.Now()
	if c.all {
		for _, a := range views.ByDueDate(snapshot) {
			output.FormatCardByID(out, a, now)
		}
		return exitcode.Success
	}

	b := views.Dashboard(snapshot, now)
	sections := []struct {
		title string
		items []assignment.Assignment
	}{
		{"Overdue", b.Overdue},
		{"Due Today", b.DueToday},
		{"Upcoming", b.Upcoming},
		{"Recently Completed", b.RecentlyCompleted},
	}

	// Numbers run on across sections so they match views.Buckets.All.
	num := 1
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		output.FormatSectionHeader(out, s.title, len(s.items))
		for _, a := range s.items {
			output.FormatCard(out, num, a, now)
			num++
		}
	}
	return exitcode.Success
}
