package assignment

import "time"

// DefaultSubjects are the subjects offered when none are configured.
var DefaultSubjects = []string{
	"Mathematics",
	"Science",
	"History",
	"English",
	"Art",
	"Computer Science",
}

// Seed returns the sample collection installed on first run. Due dates are
// relative to now: one due yesterday, one completed two days ago, the rest
// upcoming.
func Seed(now time.Time) []Assignment {
	day := 24 * time.Hour
	return []Assignment{
		{
			ID:       "1",
			Title:    "Complete Calculus Homework Chapter 5",
			Subject:  "Mathematics",
			DueDate:  now.AddDate(0, 0, 1),
			Priority: High,
			Notes:    "Focus on differentiation problems.",
			Subtasks: []Subtask{
				{ID: "1-1", Text: "Problems 1-5", Completed: true},
				{ID: "1-2", Text: "Problems 6-10"},
				{ID: "1-3", Text: "Review notes"},
			},
		},
		{
			ID:       "2",
			Title:    "Write Essay on the Renaissance",
			Subject:  "History",
			DueDate:  now.AddDate(0, 0, 7),
			Priority: Medium,
			Notes:    "Minimum 5 pages, double-spaced.",
			Subtasks: []Subtask{
				{ID: "2-1", Text: "Research topic", Completed: true},
				{ID: "2-2", Text: "Create outline", Completed: true},
				{ID: "2-3", Text: "Write first draft"},
				{ID: "2-4", Text: "Proofread"},
			},
		},
		{
			ID:       "3",
			Title:    "Biology Lab Report",
			Subject:  "Science",
			DueDate:  now.AddDate(0, 0, -1),
			Priority: High,
			Notes:    "Include all data tables and graphs.",
			Subtasks: []Subtask{
				{ID: "3-1", Text: "Analyze data", Completed: true},
				{ID: "3-2", Text: "Write report body", Completed: true},
				{ID: "3-3", Text: "Create graphs", Completed: true},
			},
		},
		{
			ID:       "4",
			Title:    `Read "To Kill a Mockingbird"`,
			Subject:  "English",
			DueDate:  now.Add(10 * day),
			Priority: Low,
			Subtasks: []Subtask{},
		},
		{
			ID:       "5",
			Title:    "Final Project for CS",
			Subject:  "Computer Science",
			DueDate:  now.Add(20 * day),
			Priority: High,
			Notes:    "Build a full-stack web application.",
			Subtasks: []Subtask{
				{ID: "5-1", Text: "Design database schema", Completed: true},
				{ID: "5-2", Text: "Setup backend API"},
				{ID: "5-3", Text: "Develop frontend UI"},
			},
		},
		{
			ID:          "6",
			Title:       "Prepare for Oral Presentation",
			Subject:     "English",
			DueDate:     now,
			Priority:    Medium,
			Notes:       "5-minute presentation on Shakespeare.",
			Subtasks:    []Subtask{},
			Completed:   true,
			CompletedAt: FormatStamp(now.AddDate(0, 0, -2)),
		},
	}
}
