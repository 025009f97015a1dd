package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"studytrack/internal/assignment"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// addInput is the validated form of the add command line.
type addInput struct {
	Title    string `flag:"title" validate:"required"`
	Subject  string `flag:"subject" validate:"required,subject"`
	Due      string `flag:"due" validate:"required,duedate"`
	Priority string `flag:"priority" validate:"required,priority"`
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// AddCmd implements the add command.
type AddCmd struct {
	subject  string
	due      string
	priority string
	notes    string
	subtasks stringList
}

// SetFields sets the flag values (for testing).
func (c *AddCmd) SetFields(subject, due, priority, notes string, subtasks ...string) {
	c.subject, c.due, c.priority, c.notes = subject, due, priority, notes
	c.subtasks = subtasks
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"new"} }
func (c *AddCmd) Synopsis() string   { return "Create an assignment" }
func (c *AddCmd) NeedsService() bool { return true }
func (c *AddCmd) Usage() string {
	return "studytrack add [--subject <s>] --due <date> [--priority <p>] [--notes <text>] [--subtask <text>]... <title...>"
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.subject, "subject", "", "")
	fs.StringVar(&c.subject, "s", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.notes, "notes", "", "")
	fs.StringVar(&c.notes, "n", "", "")
	fs.Var(&c.subtasks, "subtask", "")
	fs.Var(&c.subtasks, "t", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := addInput{
		Title:    strings.TrimSpace(strings.Join(args, " ")),
		Subject:  c.subject,
		Due:      c.due,
		Priority: c.priority,
	}
	// Form defaults: first configured subject, medium priority.
	if strings.TrimSpace(in.Subject) == "" && len(cfg.Subjects) > 0 {
		in.Subject = cfg.Subjects[0]
	}
	if strings.TrimSpace(in.Priority) == "" {
		in.Priority = string(assignment.Medium)
	}

	if msgs := validationMessages(withSubjects(ctx, cfg.Subjects), in); len(msgs) > 0 {
		for _, msg := range msgs {
			fmt.Fprintf(errOut, "error: %s\n", msg)
		}
		return exitcode.UserError
	}

	// Validated above; these cannot fail.
	subject, _ := matchSubject(in.Subject, cfg.Subjects)
	due, _ := parseDue(in.Due, cfg.Location())
	priority, _ := assignment.ParsePriority(in.Priority)

	created, err := svc.AddAssignment(ctx, assignment.Draft{
		Title:    in.Title,
		Subject:  subject,
		DueDate:  due,
		Priority: priority,
		Notes:    strings.TrimSpace(c.notes),
		Subtasks: c.subtasks,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	cfg.Log().Debug("added assignment", zap.String("id", created.ID), zap.Int("subtasks", len(created.Subtasks)))
	if !cfg.Quiet {
		fmt.Fprintln(out, created.ID)
	}
	return exitcode.Success
}
