package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"studytrack/internal/backend/googletasks"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command: a one-way copy of every
// assignment into a Google Tasks list.
type ExportCmd struct {
	listName string
	force    bool
	exporter service.Exporter
}

// SetExporter replaces the Google Tasks exporter (for testing).
func (c *ExportCmd) SetExporter(e service.Exporter) {
	c.exporter = e
}

// SetFlags sets the flag values (for testing).
func (c *ExportCmd) SetFlags(listName string, force bool) {
	c.listName, c.force = listName, force
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Copy assignments to Google Tasks" }
func (c *ExportCmd) Usage() string      { return "studytrack export [--list <list-name>] [--force]" }
func (c *ExportCmd) NeedsService() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	listName := strings.TrimSpace(c.listName)
	if listName == "" {
		listName = cfg.ExportListName()
	}

	exporter := c.exporter
	if exporter == nil {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: studytrack login)")
			return exitcode.AuthError
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
		exporter = client
	}

	snapshot, err := svc.Assignments(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	res, err := exporter.Export(ctx, listName, snapshot, c.force)
	if err != nil {
		if errors.Is(err, service.ErrListNotEmpty) {
			fmt.Fprintf(errOut, "error: list not empty: %s (use --force to replace it)\n", listName)
			return exitcode.UserError
		}
		if errors.Is(err, service.ErrAuth) {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	cfg.Log().Info("exported assignments",
		zap.String("list", res.List),
		zap.Int("tasks", res.Tasks),
		zap.Int("subtasks", res.Subtasks),
		zap.Bool("replaced", res.Replaced),
	)
	if !cfg.Quiet {
		fmt.Fprintf(out, "exported %d assignments (%d subtasks) to %s\n", res.Tasks, res.Subtasks, res.List)
	}
	return exitcode.Success
}
