// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"studytrack/internal/assignment"
	"studytrack/internal/views"
)

const (
	// SectionSeparator is the separator line for dashboard sections.
	SectionSeparator = "------------"

	// SubtaskPreviewWidth is the number of characters of subtask text shown
	// on a card before it is cut off.
	SubtaskPreviewWidth = 40

	// SubtaskPreviewCount is the number of subtasks listed on a card.
	SubtaskPreviewCount = 3

	// NotesPreviewWidth limits the notes shown on a card without subtasks.
	NotesPreviewWidth = 60

	// ShortIDLength is the id prefix width used by FormatCardByID.
	ShortIDLength = 8

	dateLayout = "Jan 2, 2006"
)

// FormatSectionHeader formats a dashboard section header.
func FormatSectionHeader(w io.Writer, title string, count int) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintf(w, "%s (%d)\n", title, count)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatCard formats a numbered assignment card.
// Format: "{N:>4}  [ ] {TITLE}\n" followed by an indented detail line.
func FormatCard(w io.Writer, num int, a assignment.Assignment, now time.Time) {
	formatCard(w, fmt.Sprintf("%4d", num), a, now)
}

// FormatCardByID formats a card labelled with a short id instead of a number.
func FormatCardByID(w io.Writer, a assignment.Assignment, now time.Time) {
	formatCard(w, fmt.Sprintf("%-*s", ShortIDLength, ShortID(a.ID)), a, now)
}

func formatCard(w io.Writer, label string, a assignment.Assignment, now time.Time) {
	fmt.Fprintf(w, "%s  %s %s\n", label, checkbox(a.Completed), normalizeTitle(a.Title))

	details := []string{normalizeSubject(a.Subject), string(a.Priority), views.DueLabel(a, now)}
	if done, total := views.Progress(a); total > 0 {
		details = append(details, fmt.Sprintf("%d/%d subtasks", done, total))
	}
	indent := strings.Repeat(" ", len(label)+6)
	fmt.Fprintf(w, "%s%s\n", indent, strings.Join(details, " | "))

	if len(a.Subtasks) == 0 {
		if notes := strings.TrimSpace(a.Notes); notes != "" {
			fmt.Fprintf(w, "%s%s\n", indent, Truncate(notes, NotesPreviewWidth))
		}
		return
	}
	for i, st := range a.Subtasks {
		if i == SubtaskPreviewCount {
			fmt.Fprintf(w, "%smore…\n", indent)
			break
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, checkbox(st.Completed), Truncate(st.Text, SubtaskPreviewWidth))
	}
}

// FormatDetail formats every field of one assignment for the show command.
func FormatDetail(w io.Writer, a assignment.Assignment, now time.Time) {
	fmt.Fprintln(w, normalizeTitle(a.Title))
	fmt.Fprintf(w, "  id:        %s\n", a.ID)
	fmt.Fprintf(w, "  subject:   %s\n", normalizeSubject(a.Subject))
	fmt.Fprintf(w, "  priority:  %s\n", a.Priority)
	fmt.Fprintf(w, "  due:       %s (%s)\n", a.DueDate.In(now.Location()).Format(dateLayout), views.DueLabel(a, now))
	fmt.Fprintf(w, "  status:    %s\n", status(a, now))
	if done, total := views.Progress(a); total > 0 {
		fmt.Fprintf(w, "  progress:  %d/%d\n", done, total)
	}
	if notes := strings.TrimSpace(a.Notes); notes != "" {
		fmt.Fprintf(w, "  notes:     %s\n", strings.ReplaceAll(notes, "\n", "\n             "))
	}

	if len(a.Subtasks) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subtasks:")
	for i, st := range a.Subtasks {
		fmt.Fprintf(w, "  %2d. %s %s\n", i+1, checkbox(st.Completed), normalizeTitle(st.Text))
	}
}

func status(a assignment.Assignment, now time.Time) string {
	if !a.Completed {
		return "open"
	}
	at, ok := a.CompletedTime()
	if !ok {
		return "completed"
	}
	return "completed " + humanize.RelTime(at, now, "ago", "from now")
}

// FormatStats formats the analytics view.
func FormatStats(w io.Writer, kpis views.KPIs, trend []views.WeekCount, dist []views.SubjectCount) {
	fmt.Fprintf(w, "Total:            %d\n", kpis.Total)
	fmt.Fprintf(w, "Completed:        %d\n", kpis.Completed)
	fmt.Fprintf(w, "Overdue:          %d\n", kpis.Overdue)
	fmt.Fprintf(w, "Completion rate:  %d%%\n", kpis.CompletionRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Completed per week:")
	if len(trend) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, wk := range trend {
		fmt.Fprintf(w, "  %-8s %s %d\n", wk.Label, bar(wk.Count), wk.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "By subject:")
	if len(dist) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	width := 0
	for _, s := range dist {
		if n := utf8.RuneCountInString(normalizeSubject(s.Subject)); n > width {
			width = n
		}
	}
	for _, s := range dist {
		fmt.Fprintf(w, "  %-*s %s %d\n", width, normalizeSubject(s.Subject), bar(s.Count), s.Count)
	}
}

// FormatSubject formats a subject line for the subjects command.
func FormatSubject(w io.Writer, subject string, count int, configured bool) {
	line := fmt.Sprintf("%s (%d)", normalizeSubject(subject), count)
	if !configured {
		line += " [unlisted]"
	}
	fmt.Fprintln(w, line)
}

// ShortID returns the first ShortIDLength characters of id.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// Truncate keeps the first width characters of s and appends "…" if anything
// was cut.
func Truncate(s string, width int) string {
	s = normalizeTitle(s)
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + "…"
}

func bar(n int) string {
	return strings.Repeat("#", n)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeSubject normalizes a subject for display.
// Empty or whitespace-only subjects become "(no subject)".
func normalizeSubject(subject string) string {
	if strings.TrimSpace(subject) == "" {
		return "(no subject)"
	}
	return subject
}
