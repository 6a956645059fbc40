package study

import (
	"time"

	"github.com/google/uuid"
)

// Subject owns an ordered set of topics. The exam fields are optional; a
// subject without an exam date is tracked but excluded from readiness and
// prediction output.
type Subject struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Color       string     `json:"color,omitempty"` // UI passthrough
	ExamDate    *time.Time `json:"exam_date,omitempty"`
	ExamFormat  string     `json:"exam_format,omitempty"` // free text, e.g. "MC + Fallstudie"
	NextClassAt *time.Time `json:"next_class_at,omitempty"`
	Topics      []Topic    `json:"topics"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

func (s *Subject) Archived() bool {
	return s.ArchivedAt != nil
}

// ActiveTopics returns the non-archived topics in their original order.
func (s *Subject) ActiveTopics() []Topic {
	out := make([]Topic, 0, len(s.Topics))
	for _, t := range s.Topics {
		if !t.Archived() {
			out = append(out, t)
		}
	}
	return out
}

// HasExamUpcoming reports whether the exam date is set and not in the past
// (same-day exams still count as upcoming).
func (s *Subject) HasExamUpcoming(now time.Time) bool {
	if s.ExamDate == nil {
		return false
	}
	y1, m1, d1 := s.ExamDate.Date()
	y2, m2, d2 := now.Date()
	exam := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !exam.Before(today)
}
