package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"studytrack/internal/commands"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/logging"
	"studytrack/internal/service"
)

// defaultCommand runs when studytrack is invoked without arguments.
const defaultCommand = "list"

// ServiceFactory opens the tracker a command runs against.
// The dispatcher closes what it returns.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher parses the command line and runs one command.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a dispatcher over registry. factory may be nil when
// no registered command needs a service.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run dispatches args and returns the process exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name, rest := defaultCommand, []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	// Flags only follow a command name.
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.runCommand(ctx, cmd, rest, out, errOut)
}

func (d *Dispatcher) runCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	cfg.Logger = newLogger(cfg, errOut)
	defer func() { _ = cfg.Logger.Sync() }()
	cfg.Logger.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.String("dir", cfg.Dir),
		zap.String("driver", cfg.Driver()))

	var svc service.Service
	if cmd.NeedsService() {
		svc, err = d.openService(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		defer func() {
			if err := svc.Close(); err != nil {
				cfg.Logger.Warn("failed to close storage", zap.Error(err))
			}
		}()
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

func (d *Dispatcher) openService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if d.factory == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	return d.factory(ctx, cfg)
}

// newLogger logs to errOut and, when enabled, to the rotated log file.
// A config dir that cannot be created only disables the file.
func newLogger(cfg *config.Config, errOut io.Writer) *zap.Logger {
	opts := logging.Options{Out: errOut, Debug: cfg.Debug, Quiet: cfg.Quiet}
	if cfg.LogToFile && cfg.EnsureDir() == nil {
		opts.File = cfg.LogPath()
	}
	return logging.New(opts)
}

// flagErrorMessage rewrites flag package errors into the CLI's wording.
func flagErrorMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "needs a value"), strings.Contains(msg, "flag needs an argument"):
		// "flag needs an argument: -due"
		parts := strings.Split(msg, ":")
		return "flag needs an argument: " + strings.TrimSpace(parts[len(parts)-1])
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	default:
		return msg
	}
}
