// Package views computes read-only projections of an assignment snapshot:
// the dashboard buckets, the analytics aggregates and per-card details.
package views

import (
	"sort"
	"time"

	"studytrack/internal/assignment"
)

// RecentLimit is the number of completed assignments shown on the dashboard.
const RecentLimit = 5

// Buckets partitions a snapshot for the dashboard. Overdue, DueToday and
// Upcoming hold open assignments only and never share an entry.
type Buckets struct {
	Overdue           []assignment.Assignment
	DueToday          []assignment.Assignment
	Upcoming          []assignment.Assignment
	RecentlyCompleted []assignment.Assignment
}

// All returns the buckets concatenated in display order.
func (b Buckets) All() []assignment.Assignment {
	all := make([]assignment.Assignment, 0, len(b.Overdue)+len(b.DueToday)+len(b.Upcoming)+len(b.RecentlyCompleted))
	all = append(all, b.Overdue...)
	all = append(all, b.DueToday...)
	all = append(all, b.Upcoming...)
	all = append(all, b.RecentlyCompleted...)
	return all
}

// Dashboard sorts open assignments into buckets by the calendar day of their
// due date relative to now, evaluated in now's location. Subtask progress
// plays no part.
func Dashboard(snapshot []assignment.Assignment, now time.Time) Buckets {
	var b Buckets
	today := dayOf(now, now.Location())

	var completed []assignment.Assignment
	for _, a := range snapshot {
		if a.Completed {
			completed = append(completed, a)
			continue
		}
		due := dayOf(a.DueDate, now.Location())
		switch {
		case due.Before(today):
			b.Overdue = append(b.Overdue, a)
		case due.Equal(today):
			b.DueToday = append(b.DueToday, a)
		default:
			b.Upcoming = append(b.Upcoming, a)
		}
	}

	sortByDue(b.Overdue)
	sortByDue(b.Upcoming)
	b.RecentlyCompleted = recentlyCompleted(completed, RecentLimit)
	return b
}

// recentlyCompleted returns at most limit entries, newest completion first.
// Entries whose stamp cannot be parsed sort last.
func recentlyCompleted(completed []assignment.Assignment, limit int) []assignment.Assignment {
	sort.SliceStable(completed, func(i, j int) bool {
		ti, iok := completed[i].CompletedTime()
		tj, jok := completed[j].CompletedTime()
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})
	if len(completed) > limit {
		completed = completed[:limit]
	}
	return completed
}

// ByDueDate returns a copy of snapshot ordered by due date, earliest first.
func ByDueDate(snapshot []assignment.Assignment) []assignment.Assignment {
	sorted := make([]assignment.Assignment, len(snapshot))
	copy(sorted, snapshot)
	sortByDue(sorted)
	return sorted
}

func sortByDue(list []assignment.Assignment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DueDate.Before(list[j].DueDate)
	})
}

// dayOf truncates t to midnight of its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
