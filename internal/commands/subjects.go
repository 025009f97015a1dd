package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/output"
	"studytrack/internal/service"
	"studytrack/internal/views"
)

func init() {
	Register(&SubjectsCmd{})
}

// SubjectsCmd implements the subjects command.
type SubjectsCmd struct{}

func (c *SubjectsCmd) Name() string       { return "subjects" }
func (c *SubjectsCmd) Aliases() []string  { return nil }
func (c *SubjectsCmd) Synopsis() string   { return "List subjects with assignment counts" }
func (c *SubjectsCmd) Usage() string      { return "studytrack subjects" }
func (c *SubjectsCmd) NeedsService() bool { return true }

func (c *SubjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run prints configured subjects in order, then any subject only found in
// stored assignments.
func (c *SubjectsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	snapshot, err := svc.Assignments(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	counts := map[string]int{}
	for _, s := range views.SubjectDistribution(snapshot) {
		counts[strings.ToLower(s.Subject)] += s.Count
	}

	printed := map[string]bool{}
	for _, subject := range cfg.Subjects {
		key := strings.ToLower(subject)
		if printed[key] {
			continue
		}
		printed[key] = true
		output.FormatSubject(out, subject, counts[key], true)
	}
	for _, s := range views.SubjectDistribution(snapshot) {
		key := strings.ToLower(s.Subject)
		if printed[key] {
			continue
		}
		printed[key] = true
		output.FormatSubject(out, s.Subject, counts[key], false)
	}

	if len(printed) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no subjects found")
	}
	return exitcode.Success
}
