package study

import (
	"math"
	"sort"
	"time"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// Power-law forgetting curve R(t) = (1 + t/(k*S))^-1 with k = 9: a topic at
// stability S retains R = 0.5 after 9*S days and R = 0.9 after S days. The
// engine only relies on the monotonic shape, not on these exact values.
const (
	forgettingFactor = 9.0

	// DefaultTargetRetention is the retrievability at which a topic comes due.
	DefaultTargetRetention = 0.85

	minStability  = 0.1
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// Retrievability estimates the probability the topic is still recalled now.
// Without a memory state or a recorded review the estimate is 0.
func Retrievability(now time.Time, m *domain.MemoryState) float64 {
	if m == nil || m.LastReview == nil || m.Stability <= 0 {
		return 0
	}
	t := float64(DaysSince(now, m.LastReview))
	r := 1.0 / (1.0 + t/(forgettingFactor*m.Stability))
	return math.Min(math.Max(r, 0), 1)
}

// intervalForRetention returns the elapsed days at which retrievability
// crosses target, from R(t) = target solved for t.
func intervalForRetention(stability, target float64) float64 {
	if target <= 0 {
		return math.MaxFloat64
	}
	if target >= 1 {
		return 0
	}
	return forgettingFactor * stability * (1.0/target - 1.0)
}

// DaysUntilReview returns the whole days until the topic's retrievability
// drops below target. A topic already below target is due now (0). A topic
// without state is also due now.
func DaysUntilReview(now time.Time, m *domain.MemoryState, target float64) int {
	if m == nil || m.LastReview == nil || m.Stability <= 0 {
		return 0
	}
	if target <= 0 {
		target = DefaultTargetRetention
	}
	elapsed := float64(DaysSince(now, m.LastReview))
	remaining := intervalForRetention(m.Stability, target) - elapsed
	if remaining <= 0 {
		return 0
	}
	return int(math.Floor(remaining))
}

// DueDate returns the date at which the topic crosses the target retention.
func DueDate(m *domain.MemoryState, target float64) time.Time {
	if m == nil || m.LastReview == nil {
		return time.Time{}
	}
	if target <= 0 {
		target = DefaultTargetRetention
	}
	days := intervalForRetention(m.Stability, target)
	return m.LastReview.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// InitialMemory builds the memory state after the first graded review of a
// topic. Stability starts between 1 and 4 days depending on the grade;
// difficulty starts near the middle of the scale, higher for worse grades.
func InitialMemory(grade float64, reviewedAt time.Time) domain.MemoryState {
	g := ClampGrade(grade)
	q := (g - domain.GradeMin) / (domain.GradeMax - domain.GradeMin) // 0..1
	at := reviewedAt
	return domain.MemoryState{
		Stability:  1.0 + 3.0*q,
		Difficulty: clampDifficulty(5.0 + (4.5-g)*1.2),
		LastReview: &at,
	}
}

// ReviewUpdate applies a graded review to a memory state and returns the new
// state. The rule is a simplified SM-2/FSRS hybrid:
//
//	difficulty' = clamp(d + 0.3*(4.5 - grade), 1, 10)
//	success (grade >= 4): S' = S * (1 + 0.6*(grade-3.5) * (11-difficulty')/10)
//	failure (grade < 4):  S' = S * (0.2 + 0.1*q)   with q = normalized grade
//
// Stability never drops below the 0.1-day floor, and a failed review always
// lands strictly below a perfect review of the same prior state: the success
// multiplier is >= 1 while the failure multiplier is <= 0.3.
func ReviewUpdate(m domain.MemoryState, grade float64, reviewedAt time.Time) domain.MemoryState {
	if m.LastReview == nil || m.Stability <= 0 {
		return InitialMemory(grade, reviewedAt)
	}
	g := ClampGrade(grade)
	q := (g - domain.GradeMin) / (domain.GradeMax - domain.GradeMin)

	d := clampDifficulty(m.Difficulty + 0.3*(4.5-g))

	var s float64
	if g >= 4.0 {
		s = m.Stability * (1.0 + 0.6*(g-3.5)*(maxDifficulty+1-d)/10.0)
	} else {
		s = m.Stability * (0.2 + 0.1*q)
	}
	if s < minStability {
		s = minStability
	}
	at := reviewedAt
	return domain.MemoryState{Stability: s, Difficulty: d, LastReview: &at}
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}

// DueTopic is a review candidate produced by SelectDueTopics.
type DueTopic struct {
	Topic          *domain.Topic
	Retrievability float64
	Due            time.Time
}

// SelectDueTopics picks the topics whose retrievability has fallen below
// target, most at-risk first, ties broken by the earlier original due date.
// maxPerDay bounds the result; maxPerDay <= 0 means unbounded.
func SelectDueTopics(now time.Time, topics []domain.Topic, maxPerDay int, target float64) []DueTopic {
	if target <= 0 {
		target = DefaultTargetRetention
	}
	due := make([]DueTopic, 0, len(topics))
	for i := range topics {
		t := &topics[i]
		if t.Archived() || t.Memory == nil || t.Memory.LastReview == nil {
			continue
		}
		r := Retrievability(now, t.Memory)
		if r >= target {
			continue
		}
		due = append(due, DueTopic{
			Topic:          t,
			Retrievability: r,
			Due:            DueDate(t.Memory, target),
		})
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Retrievability != due[j].Retrievability {
			return due[i].Retrievability < due[j].Retrievability
		}
		return due[i].Due.Before(due[j].Due)
	})
	if maxPerDay > 0 && len(due) > maxPerDay {
		due = due[:maxPerDay]
	}
	return due
}
