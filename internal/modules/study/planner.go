package study

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

const (
	// MaxTopicsPerDay is the hard cap on planned topics regardless of budget.
	MaxTopicsPerDay = 12

	// DefaultMinutesPerTopic converts a minute budget into a topic count when
	// the goals carry no override.
	DefaultMinutesPerTopic = 25

	// minVacationMultiplier keeps vacation mode from zeroing the budget.
	minVacationMultiplier = 0.1

	setupTaskMinutes = 15
)

// PlanInput is the full snapshot the planner works on. The planner reads it
// and never mutates it; identical input always produces the identical plan.
type PlanInput struct {
	Subjects []domain.Subject   `json:"subjects"`
	Goals    domain.StudyGoals  `json:"goals"`
	Status   domain.DailyStatus `json:"status"`
}

// DailyPlan is the planner output for one day.
type DailyPlan struct {
	Date        time.Time          `json:"date"`
	BudgetMin   int                `json:"budget_min"`
	Capacity    int                `json:"capacity"`
	Tasks       []domain.DailyTask `json:"tasks"`
	TotalTopics int                `json:"total_topics"`
	// NewShare is the achieved share of new-material topics, 0..1.
	NewShare float64 `json:"new_share"`
}

// EffectiveBudget derives the study minutes for the day: weekend minutes on
// Saturday/Sunday when configured, halved on sick or holiday days, scaled by
// the vacation multiplier (floored at 0.1) in vacation mode.
func EffectiveBudget(now time.Time, goals domain.StudyGoals, status domain.DailyStatus) int {
	minutes := goals.DailyMinutes
	if wd := now.Weekday(); (wd == time.Saturday || wd == time.Sunday) && goals.WeekendMinutes > 0 {
		minutes = goals.WeekendMinutes
	}
	if minutes < 0 {
		minutes = 0
	}
	if status.Sick || status.Holiday {
		minutes /= 2
	}
	if goals.VacationMode {
		mult := goals.VacationMultiplier
		if mult < minVacationMultiplier {
			mult = minVacationMultiplier
		}
		minutes = int(math.Floor(float64(minutes) * mult))
	}
	return minutes
}

// TopicCapacity converts a minute budget into a topic count, capped at the
// daily hard cap.
func TopicCapacity(budgetMin int, goals domain.StudyGoals) int {
	perTopic := goals.MinutesPerTopic
	if perTopic <= 0 {
		perTopic = DefaultMinutesPerTopic
	}
	capacity := budgetMin / perTopic
	if capacity > MaxTopicsPerDay {
		capacity = MaxTopicsPerDay
	}
	if capacity < 0 {
		capacity = 0
	}
	return capacity
}

// candidate is one topic slot waiting for selection, tagged with its tier.
type candidate struct {
	subject *domain.Subject
	topic   *domain.Topic
	tier    domain.TaskType
	reason  string
	// sortKey orders candidates inside a tier (overdue days for reviews).
	sortKey int
}

// BuildDailyPlan allocates the day's capacity across the priority tiers:
// setup tasks for unready subjects, then topics of subjects with an exam at
// most 3 days out or a class tomorrow, then overdue reviews by staleness,
// then new material under the minimum-quota rule. Topics are deduplicated
// across tiers and the result is truncated deterministically (tier order,
// then topic number), so repeated calls with the same input yield the same
// plan.
func BuildDailyPlan(now time.Time, in PlanInput) DailyPlan {
	budget := EffectiveBudget(now, in.Goals, in.Status)
	capacity := TopicCapacity(budget, in.Goals)

	plan := DailyPlan{
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		BudgetMin: budget,
		Capacity:  capacity,
	}

	seen := make(map[uuid.UUID]bool)

	// Tier 1: setup tasks, zero topic slots.
	for i := range in.Subjects {
		s := &in.Subjects[i]
		if s.Archived() || IsReadyForStudy(s) {
			continue
		}
		plan.Tasks = append(plan.Tasks, domain.DailyTask{
			SubjectID:    s.ID,
			SubjectName:  s.Name,
			Type:         domain.TaskSetup,
			Topics:       []domain.PlannedTopic{},
			EstimatedMin: setupTaskMinutes,
		})
	}

	critical := criticalCandidates(now, in.Subjects, seen)
	reviews := reviewCandidates(now, in.Subjects, seen)
	fresh := newMaterialCandidates(in.Subjects, seen)

	selected := make([]candidate, 0, capacity)
	remaining := capacity

	take := func(pool []candidate, n int) {
		if n < 0 {
			n = 0
		}
		if n > len(pool) {
			n = len(pool)
		}
		if n > remaining {
			n = remaining
		}
		selected = append(selected, pool[:n]...)
		remaining -= n
	}

	// Tier 2 may consume everything.
	take(critical, len(critical))

	// Reserve the new-material quota out of what is left, then fill reviews.
	reserve := 0
	if len(fresh) > 0 && remaining > 0 {
		quota := in.Goals.NewMaterialQuota
		if quota <= 0 {
			quota = domain.DefaultGoals().NewMaterialQuota
		}
		if quota > 1 {
			quota = 1
		}
		reserve = int(math.Ceil(float64(remaining) * quota))
		if reserve > len(fresh) {
			reserve = len(fresh)
		}
	}
	take(reviews, remaining-reserve)
	take(fresh, remaining)

	plan.Tasks = append(plan.Tasks, groupTasks(selected)...)

	newCount := 0
	for _, c := range selected {
		plan.TotalTopics++
		if c.tier == domain.TaskNormal {
			newCount++
		}
	}
	if plan.TotalTopics > 0 {
		plan.NewShare = float64(newCount) / float64(plan.TotalTopics)
	}
	return plan
}

// criticalCandidates collects topics of subjects facing an exam within 3 days
// or a class tomorrow. Within a subject, overdue reviews go first, then by
// topic number.
func criticalCandidates(now time.Time, subjects []domain.Subject, seen map[uuid.UUID]bool) []candidate {
	var out []candidate
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() || !subjectIsUrgent(now, s) {
			continue
		}
		var pool []candidate
		for j := range s.Topics {
			t := &s.Topics[j]
			if t.Archived() || seen[t.ID] || t.Status == domain.StatusGreen {
				continue
			}
			c := candidate{
				subject: s,
				topic:   t,
				tier:    domain.TaskCritical,
				reason:  "Prüfung steht an",
				sortKey: 0,
			}
			if NeedsReview(now, t) {
				c.sortKey = -DaysOverdue(now, t)
			}
			pool = append(pool, c)
		}
		sort.SliceStable(pool, func(a, b int) bool {
			if pool[a].sortKey != pool[b].sortKey {
				return pool[a].sortKey < pool[b].sortKey
			}
			return pool[a].topic.Number < pool[b].topic.Number
		})
		out = append(out, pool...)
	}
	for _, c := range out {
		seen[c.topic.ID] = true
	}
	return out
}

func subjectIsUrgent(now time.Time, s *domain.Subject) bool {
	if s.HasExamUpcoming(now) && DaysUntil(now, *s.ExamDate) <= 3 {
		return true
	}
	if s.NextClassAt != nil && DaysUntil(now, *s.NextClassAt) == 1 {
		return true
	}
	return false
}

// reviewCandidates collects all overdue topics across subjects, most stale
// first, ties by topic number then subject order.
func reviewCandidates(now time.Time, subjects []domain.Subject, seen map[uuid.UUID]bool) []candidate {
	var out []candidate
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() {
			continue
		}
		for j := range s.Topics {
			t := &s.Topics[j]
			if t.Archived() || seen[t.ID] || !NeedsReview(now, t) {
				continue
			}
			overdue := DaysOverdue(now, t)
			out = append(out, candidate{
				subject: s,
				topic:   t,
				tier:    domain.TaskHigh,
				reason:  fmt.Sprintf("%dd überfällig", overdue),
				sortKey: -overdue,
			})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].sortKey != out[b].sortKey {
			return out[a].sortKey < out[b].sortKey
		}
		return out[a].topic.Number < out[b].topic.Number
	})
	for _, c := range out {
		seen[c.topic.ID] = true
	}
	return out
}

// newMaterialCandidates collects gray topics in subject order, preferring
// subjects with a sooner exam, then topic number.
func newMaterialCandidates(subjects []domain.Subject, seen map[uuid.UUID]bool) []candidate {
	var out []candidate
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() {
			continue
		}
		examKey := NeverReviewedDays
		if s.ExamDate != nil {
			examKey = int(s.ExamDate.Unix() / 86400)
		}
		for j := range s.Topics {
			t := &s.Topics[j]
			if t.Archived() || seen[t.ID] || t.Status != domain.StatusGray {
				continue
			}
			out = append(out, candidate{
				subject: s,
				topic:   t,
				tier:    domain.TaskNormal,
				reason:  "Neuer Stoff",
				sortKey: examKey,
			})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].sortKey != out[b].sortKey {
			return out[a].sortKey < out[b].sortKey
		}
		return out[a].topic.Number < out[b].topic.Number
	})
	for _, c := range out {
		seen[c.topic.ID] = true
	}
	return out
}

// groupTasks folds the selected candidates into one task per subject and
// tier, preserving tier order then selection order.
func groupTasks(selected []candidate) []domain.DailyTask {
	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].tier.Rank() < selected[b].tier.Rank()
	})

	var tasks []domain.DailyTask
	index := make(map[string]int)
	for _, c := range selected {
		key := c.subject.ID.String() + "/" + string(c.tier)
		i, ok := index[key]
		if !ok {
			i = len(tasks)
			index[key] = i
			tasks = append(tasks, domain.DailyTask{
				SubjectID:   c.subject.ID,
				SubjectName: c.subject.Name,
				Type:        c.tier,
				Topics:      []domain.PlannedTopic{},
			})
		}
		tasks[i].Topics = append(tasks[i].Topics, domain.PlannedTopic{
			TopicID: c.topic.ID,
			Number:  c.topic.Number,
			Name:    c.topic.Name,
			Reason:  c.reason,
		})
		tasks[i].EstimatedMin += c.topic.Size.Minutes()
	}
	return tasks
}

// ReconcilePlan validates an externally drafted task list (e.g. from an LLM
// assistant) against the snapshot and the day's hard limits: tasks for
// unknown subjects are dropped, unknown or archived topics are removed,
// duplicates keep their first occurrence, and the total is truncated to the
// day's capacity in the given order. The result is what the caller may show;
// the external draft itself is never trusted.
func ReconcilePlan(now time.Time, external []domain.DailyTask, in PlanInput) []domain.DailyTask {
	budget := EffectiveBudget(now, in.Goals, in.Status)
	capacity := TopicCapacity(budget, in.Goals)

	subjects := make(map[uuid.UUID]*domain.Subject, len(in.Subjects))
	topics := make(map[uuid.UUID]*domain.Topic)
	for i := range in.Subjects {
		s := &in.Subjects[i]
		if s.Archived() {
			continue
		}
		subjects[s.ID] = s
		for j := range s.Topics {
			t := &s.Topics[j]
			if !t.Archived() {
				topics[t.ID] = t
			}
		}
	}

	seen := make(map[uuid.UUID]bool)
	used := 0
	out := make([]domain.DailyTask, 0, len(external))
	for _, task := range external {
		s, ok := subjects[task.SubjectID]
		if !ok {
			continue
		}
		kind := task.Type
		if !kind.Valid() {
			kind = domain.TaskMedium
		}
		clean := domain.DailyTask{
			SubjectID:   s.ID,
			SubjectName: s.Name,
			Type:        kind,
			Topics:      []domain.PlannedTopic{},
			Completed:   task.Completed,
		}
		for _, pt := range task.Topics {
			if used >= capacity {
				break
			}
			t, ok := topics[pt.TopicID]
			if !ok || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			used++
			clean.Topics = append(clean.Topics, domain.PlannedTopic{
				TopicID: t.ID,
				Number:  t.Number,
				Name:    t.Name,
				Reason:  pt.Reason,
			})
			clean.EstimatedMin += t.Size.Minutes()
		}
		if len(clean.Topics) == 0 && kind != domain.TaskSetup {
			continue
		}
		if kind == domain.TaskSetup {
			clean.EstimatedMin = setupTaskMinutes
		}
		out = append(out, clean)
	}
	return out
}
