package study

import (
	"math"
	"time"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// ProgressSummary is the per-subject rollup of topic mastery.
type ProgressSummary struct {
	Total   int `json:"total"`
	Green   int `json:"green"`
	Yellow  int `json:"yellow"`
	Orange  int `json:"orange"`
	Gray    int `json:"gray"`
	// Percentage is the weighted share of mastered material, 0-100 rounded.
	// Weights come from the status table (green 1.0, yellow 0.6, orange 0.3,
	// gray 0.0) so progress and prediction cannot drift apart.
	Percentage int `json:"percentage"`
	// Coverage is the share of topics with material or quiz history, 0-100.
	Coverage int `json:"coverage"`
	// Decaying counts non-gray topics past their review threshold.
	Decaying int `json:"decaying"`
	// AvgGrade is the mean of per-topic average grades, nil when no topic has
	// a grade yet.
	AvgGrade *float64 `json:"avg_grade,omitempty"`
}

// SubjectProgress rolls the subject's active topics into a ProgressSummary.
// A subject with zero topics yields the zero summary, never NaN.
func SubjectProgress(now time.Time, s *domain.Subject) ProgressSummary {
	var out ProgressSummary
	weighted := 0.0
	covered := 0
	gradeSum := 0.0
	gradeN := 0

	for i := range s.Topics {
		t := &s.Topics[i]
		if t.Archived() {
			continue
		}
		out.Total++
		switch t.Status {
		case domain.StatusGreen:
			out.Green++
		case domain.StatusYellow:
			out.Yellow++
		case domain.StatusOrange:
			out.Orange++
		default:
			out.Gray++
		}
		weighted += t.Status.Weight()
		if t.Covered() {
			covered++
		}
		if NeedsReview(now, t) {
			out.Decaying++
		}
		if t.AvgGrade != nil && ValidGrade(*t.AvgGrade) {
			gradeSum += *t.AvgGrade
			gradeN++
		}
	}

	if out.Total > 0 {
		out.Percentage = int(math.Round(weighted / float64(out.Total) * 100))
		out.Coverage = int(math.Round(float64(covered) / float64(out.Total) * 100))
	}
	if gradeN > 0 {
		avg := gradeSum / float64(gradeN)
		out.AvgGrade = &avg
	}
	return out
}

// IsReadyForStudy reports whether the subject has enough substance to be
// planned: topics exist, an exam date is set, and there is something to study
// from (material or quiz history). Subjects failing this get setup tasks
// instead of topic work.
func IsReadyForStudy(s *domain.Subject) bool {
	if s.Archived() || s.ExamDate == nil {
		return false
	}
	for i := range s.Topics {
		t := &s.Topics[i]
		if !t.Archived() && t.Covered() {
			return true
		}
	}
	return false
}

// gradeEquivalent maps a topic onto the 2.00-6.00 scale for prediction. A
// recorded average grade wins; otherwise the status bucket supplies an
// equivalent via the shared weight table (2 + 4*weight), except gray which
// uses the fixed low baseline: an untouched topic scores like a bad exam, not
// like an impossible one.
func gradeEquivalent(t *domain.Topic, grayBaseline float64) float64 {
	if t.AvgGrade != nil && ValidGrade(*t.AvgGrade) {
		return *t.AvgGrade
	}
	if t.Status == domain.StatusGray || !t.Status.Valid() {
		return grayBaseline
	}
	return domain.GradeMin + (domain.GradeMax-domain.GradeMin)*t.Status.Weight()
}
