package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"studytrack/internal/assignment"
	"studytrack/internal/config"
	"studytrack/internal/exitcode"
	"studytrack/internal/service"
	"studytrack/internal/views"
)

var (
	errOutOfRange = errors.New("assignment number out of range")
	errNoMatch    = errors.New("assignment not found")
	errAmbiguous  = errors.New("ambiguous assignment id")
)

// numbered returns the assignments in the order the dashboard prints them.
// Dashboard number N is numbered(...)[N-1].
func numbered(snapshot []assignment.Assignment, cfg *config.Config) []assignment.Assignment {
	return views.Dashboard(snapshot, cfg.Now()).All()
}

// resolveRef finds the assignment a reference points to. An exact id match
// wins over prefix matches.
func resolveRef(snapshot []assignment.Assignment, cfg *config.Config, ref Ref) (assignment.Assignment, error) {
	if ref.IsNum() {
		list := numbered(snapshot, cfg)
		if ref.Num < 1 || ref.Num > len(list) {
			return assignment.Assignment{}, errOutOfRange
		}
		return list[ref.Num-1], nil
	}

	if a, ok := assignment.Find(snapshot, ref.ID); ok {
		return a, nil
	}
	var matches []assignment.Assignment
	for _, a := range snapshot {
		if strings.HasPrefix(a.ID, ref.ID) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return assignment.Assignment{}, errNoMatch
	case 1:
		return matches[0], nil
	default:
		return assignment.Assignment{}, errAmbiguous
	}
}

// lookupAssignment loads the snapshot and resolves ref, reporting failures
// on errOut. code is exitcode.Success when a was found.
func lookupAssignment(ctx context.Context, cfg *config.Config, svc service.Service, ref Ref, errOut io.Writer) (a assignment.Assignment, code int) {
	snapshot, err := svc.Assignments(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return a, exitcode.BackendError
	}

	a, err = resolveRef(snapshot, cfg, ref)
	switch {
	case err == nil:
		return a, exitcode.Success
	case errors.Is(err, errOutOfRange):
		fmt.Fprintf(errOut, "error: assignment number out of range: %d\n", ref.Num)
	case errors.Is(err, errAmbiguous):
		fmt.Fprintf(errOut, "error: ambiguous assignment id: %s\n", ref.ID)
	default:
		fmt.Fprintf(errOut, "error: assignment not found: %s\n", ref.ID)
	}
	return a, exitcode.UserError
}

// reportRefError prints a ParseRef/ParseSubtaskRef error.
func reportRefError(err error, errOut io.Writer) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// reportMutationError prints an error returned by a service mutation.
func reportMutationError(err error, ref Ref, errOut io.Writer) int {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: assignment not found: %s\n", ref)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
