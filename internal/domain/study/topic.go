package study

import (
	"time"

	"github.com/google/uuid"
)

// GradeMin/GradeMax bound the Swiss 2.00-6.00 grading scale used everywhere.
const (
	GradeMin = 2.0
	GradeMax = 6.0
)

// QuizResult is one quiz outcome in a topic's history.
type QuizResult struct {
	Score      float64   `json:"score"` // 0..100
	Date       time.Time `json:"date"`
	BloomLevel string    `json:"bloom_level,omitempty"` // remember|understand|apply|analyze|evaluate|create
}

// WrongAnswer is a per-concept failure log entry with drill counters.
type WrongAnswer struct {
	Concept    string     `json:"concept"`
	Count      int        `json:"count"`
	DrillCount int        `json:"drill_count"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

// MemoryState is the spaced-repetition memory state of a topic. Stability is
// measured in days; larger means slower forgetting. Difficulty is bounded to
// [1, 10]. Nil LastReview means the topic has never been reviewed under the
// retention model.
type MemoryState struct {
	Stability  float64    `json:"stability"`
	Difficulty float64    `json:"difficulty"`
	LastReview *time.Time `json:"last_review,omitempty"`
}

// Topic is the unit of study.
type Topic struct {
	ID             uuid.UUID     `json:"id"`
	Number         int           `json:"number"` // ordinal within the subject
	Name           string        `json:"name"`
	Status         Status        `json:"status"`
	AvgGrade       *float64      `json:"avg_grade,omitempty"` // nil until first grade
	Grades         []float64     `json:"grades,omitempty"`
	QuizCount      int           `json:"quiz_count"`
	QuizHistory    []QuizResult  `json:"quiz_history,omitempty"`
	LastReview     *time.Time    `json:"last_review,omitempty"`
	LastRead       *time.Time    `json:"last_read,omitempty"`
	ReadCount      int           `json:"read_count"`
	Size           TopicSize     `json:"size,omitempty"`
	HasMaterial    bool          `json:"has_material"`
	MaterialImages bool          `json:"material_images"`
	WrongAnswers   []WrongAnswer `json:"wrong_answers,omitempty"`
	Memory         *MemoryState  `json:"memory,omitempty"`
	ArchivedAt     *time.Time    `json:"archived_at,omitempty"` // soft delete, history preserved
}

// Archived reports whether the topic has been soft-deleted. Archived topics
// are skipped by every engine but their history stays intact.
func (t *Topic) Archived() bool {
	return t.ArchivedAt != nil
}

func (t *Topic) HasQuizzes() bool {
	return t.QuizCount > 0 || len(t.QuizHistory) > 0
}

// HasAnyMaterial reports whether the topic carries study material in any form.
func (t *Topic) HasAnyMaterial() bool {
	return t.HasMaterial || t.MaterialImages
}

// Covered reports whether the topic counts toward subject coverage: it has
// material to learn from or has at least been quizzed.
func (t *Topic) Covered() bool {
	return t.HasAnyMaterial() || t.HasQuizzes()
}
