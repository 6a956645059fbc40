package study

import (
	"math"
	"time"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// NeverReviewedDays is the sentinel returned by DaysSince for a nil date. It
// is large enough to exceed every threshold but stays finite so arithmetic on
// it cannot produce Inf or overflow.
const NeverReviewedDays = 100000

// DaysSince returns whole days elapsed between date and now, floored at 0 so
// future-dated events (clock skew, manual edits) never go negative. A nil
// date means the event never happened and yields NeverReviewedDays.
func DaysSince(now time.Time, date *time.Time) int {
	if date == nil {
		return NeverReviewedDays
	}
	d := int(math.Floor(now.Sub(*date).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// GradePercent normalizes a 2.00-6.00 grade to 0-100. Out-of-range input is
// clamped; nil reports -1 so callers can tell "no grade" from "0%".
func GradePercent(avg *float64) float64 {
	if avg == nil {
		return -1
	}
	g := ClampGrade(*avg)
	return (g - domain.GradeMin) / (domain.GradeMax - domain.GradeMin) * 100
}

// ClampGrade bounds a grade to the valid scale. Non-finite values collapse to
// the minimum grade.
func ClampGrade(g float64) float64 {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return domain.GradeMin
	}
	return math.Min(math.Max(g, domain.GradeMin), domain.GradeMax)
}

// ValidGrade reports whether a caller-supplied grade may enter an average.
// Out-of-range values are ignored rather than clamped when aggregating, so a
// stray 0 or 66 cannot corrupt the history.
func ValidGrade(g float64) bool {
	return !math.IsNaN(g) && !math.IsInf(g, 0) && g >= domain.GradeMin && g <= domain.GradeMax
}

// AverageGrade averages the valid entries of a grade history. Invalid entries
// are skipped; an empty or all-invalid history yields nil.
func AverageGrade(grades []float64) *float64 {
	sum := 0.0
	n := 0
	for _, g := range grades {
		if !ValidGrade(g) {
			continue
		}
		sum += g
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// ReviewThreshold returns the adaptive number of days after which a topic is
// considered decayed. Better verified mastery earns a longer leash; a topic
// without any grade uses the shortest threshold because its mastery is
// unverified.
func ReviewThreshold(t *domain.Topic) int {
	p := GradePercent(t.AvgGrade)
	switch {
	case p >= 95:
		return 21
	case p >= 85:
		return 16
	case p >= 70:
		return 12
	case p >= 50:
		return 8
	default:
		return 5
	}
}

// NeedsReview reports whether a topic has decayed past its threshold. Gray
// topics are new material, not decayed material, and never need review.
func NeedsReview(now time.Time, t *domain.Topic) bool {
	if t.Archived() || t.Status == domain.StatusGray {
		return false
	}
	return DaysSince(now, t.LastReview) >= ReviewThreshold(t)
}

// DaysOverdue returns how many days past its threshold a topic is, floored at
// 0. The planner ranks review candidates by this staleness.
func DaysOverdue(now time.Time, t *domain.Topic) int {
	d := DaysSince(now, t.LastReview) - ReviewThreshold(t)
	if d < 0 {
		return 0
	}
	return d
}
