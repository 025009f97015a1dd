package views

import (
	"math"
	"sort"
	"time"

	"studytrack/internal/assignment"
)

// TrendWeeks is the number of most recent weeks kept in the completion trend.
const TrendWeeks = 6

// WeekLabelLayout formats the first day of a trend week.
const WeekLabelLayout = "Jan 2"

// WeekCount is the number of assignments completed in the week starting on
// Start (a Monday).
type WeekCount struct {
	Start time.Time
	Label string
	Count int
}

// SubjectCount is the number of assignments filed under Subject.
type SubjectCount struct {
	Subject string
	Count   int
}

// KPIs are the headline figures of the analytics view.
type KPIs struct {
	Total          int
	Completed      int
	Overdue        int
	CompletionRate int // percent, rounded
}

// WeeklyTrend counts completed assignments per Monday-based week in loc and
// returns the last TrendWeeks weeks that have any completions, oldest first.
// Assignments whose completion time cannot be parsed are skipped.
func WeeklyTrend(snapshot []assignment.Assignment, loc *time.Location) []WeekCount {
	if loc == nil {
		loc = time.Local
	}
	counts := map[time.Time]int{}
	for _, a := range snapshot {
		if !a.Completed {
			continue
		}
		at, ok := a.CompletedTime()
		if !ok {
			continue
		}
		counts[WeekStart(at, loc)]++
	}

	weeks := make([]WeekCount, 0, len(counts))
	for start, n := range counts {
		weeks = append(weeks, WeekCount{Start: start, Label: start.Format(WeekLabelLayout), Count: n})
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Start.Before(weeks[j].Start) })
	if len(weeks) > TrendWeeks {
		weeks = weeks[len(weeks)-TrendWeeks:]
	}
	return weeks
}

// WeekStart returns midnight of the Monday on or before t in loc.
// The Monday is found on the calendar, not by stepping back from the day's
// midnight, so days whose midnight is skipped by DST land in the same week.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// SubjectDistribution counts assignments per subject, open or not, in the
// order subjects first appear in snapshot.
func SubjectDistribution(snapshot []assignment.Assignment) []SubjectCount {
	index := map[string]int{}
	var dist []SubjectCount
	for _, a := range snapshot {
		i, ok := index[a.Subject]
		if !ok {
			i = len(dist)
			index[a.Subject] = i
			dist = append(dist, SubjectCount{Subject: a.Subject})
		}
		dist[i].Count++
	}
	return dist
}

// Summarize computes the KPIs. Overdue compares due dates to the instant now,
// not to the calendar day.
func Summarize(snapshot []assignment.Assignment, now time.Time) KPIs {
	k := KPIs{Total: len(snapshot)}
	for _, a := range snapshot {
		switch {
		case a.Completed:
			k.Completed++
		case a.DueDate.Before(now):
			k.Overdue++
		}
	}
	if k.Total > 0 {
		k.CompletionRate = int(math.Round(float64(k.Completed) * 100 / float64(k.Total)))
	}
	return k
}
