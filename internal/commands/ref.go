package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// idPrefix forces a reference to be read as an id even when it is all digits.
const idPrefix = "id:"

// Ref represents a parsed assignment reference.
type Ref struct {
	Num int    // 1-based dashboard number, 0 if ID is set
	ID  string // assignment id or unique id prefix
}

// IsNum reports whether the reference is a dashboard number.
func (r Ref) IsNum() bool { return r.ID == "" }

func (r Ref) String() string {
	if r.IsNum() {
		return strconv.Itoa(r.Num)
	}
	return r.ID
}

// ErrRefRequired indicates no assignment reference was provided.
var ErrRefRequired = errors.New("assignment reference required")

// ErrSubtaskRequired indicates a subtask number was missing.
var ErrSubtaskRequired = errors.New("subtask number required")

// ParseRef parses an assignment reference from args.
//
// Parsing rules:
// 1. If first arg is all digits → dashboard number
// 2. If first arg starts with "id:" → id or id prefix, digits allowed
// 3. Otherwise a token without whitespace → id or id prefix
func ParseRef(args []string) (Ref, error) {
	if len(args) == 0 {
		return Ref{}, ErrRefRequired
	}
	return parseRefToken(args[0])
}

func parseRefToken(tok string) (Ref, error) {
	if isAllDigits(tok) {
		num, err := strconv.Atoi(tok)
		if err != nil || num < 1 {
			return Ref{}, fmt.Errorf("invalid reference: %s", tok)
		}
		return Ref{Num: num}, nil
	}

	id := strings.TrimPrefix(tok, idPrefix)
	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return Ref{}, fmt.Errorf("invalid reference: %s", tok)
	}
	return Ref{ID: id}, nil
}

// ParseSubtaskRef parses an assignment reference followed by a 1-based
// subtask number, either combined ("3.2") or separated ("3 2").
func ParseSubtaskRef(args []string) (Ref, int, error) {
	if len(args) == 0 {
		return Ref{}, 0, ErrRefRequired
	}

	first := args[0]
	if i := strings.LastIndex(first, "."); i >= 0 {
		if len(args) > 1 {
			return Ref{}, 0, fmt.Errorf("unexpected argument: %s", args[1])
		}
		ref, err := parseRefToken(first[:i])
		if err != nil {
			return Ref{}, 0, err
		}
		n, err := parseSubtaskNum(first[i+1:])
		return ref, n, err
	}

	ref, err := parseRefToken(first)
	if err != nil {
		return Ref{}, 0, err
	}
	if len(args) < 2 {
		return Ref{}, 0, ErrSubtaskRequired
	}
	if len(args) > 2 {
		return Ref{}, 0, fmt.Errorf("unexpected argument: %s", args[2])
	}
	n, err := parseSubtaskNum(args[1])
	return ref, n, err
}

func parseSubtaskNum(s string) (int, error) {
	if s == "" {
		return 0, ErrSubtaskRequired
	}
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid subtask number: %s", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid subtask number: %s", s)
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
