package views

import (
	"fmt"
	"math"
	"time"

	"studytrack/internal/assignment"
)

// Progress returns the number of completed subtasks and the total.
func Progress(a assignment.Assignment) (done, total int) {
	for _, st := range a.Subtasks {
		if st.Completed {
			done++
		}
	}
	return done, len(a.Subtasks)
}

// DueLabel describes the due date relative to now: "Today", "Tomorrow",
// "N days overdue" or "in N days". Completed assignments are labelled by
// calendar date only.
func DueLabel(a assignment.Assignment, now time.Time) string {
	loc := now.Location()
	days := int(math.Round(dayOf(a.DueDate, loc).Sub(dayOf(now, loc)).Hours() / 24))
	switch {
	case a.Completed:
		return a.DueDate.In(loc).Format("Jan 2, 2006")
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "1 day overdue"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
