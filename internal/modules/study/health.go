package study

import (
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// ExamClusterWindowDays is the maximum gap between consecutive exams that
// still counts as the same cluster.
const ExamClusterWindowDays = 3

// Workload classifies the pace required to cover the remaining topics before
// an exam.
type Workload string

const (
	WorkloadLight  Workload = "light"
	WorkloadMedium Workload = "medium"
	WorkloadHeavy  Workload = "heavy"
)

// HealthLevel is the per-subject attention flag.
type HealthLevel string

const (
	HealthHealthy  HealthLevel = "healthy"
	HealthWarning  HealthLevel = "warning"
	HealthCritical HealthLevel = "critical"
)

// SubjectHealth flags a subject that needs attention.
type SubjectHealth struct {
	SubjectID     uuid.UUID   `json:"subject_id"`
	SubjectName   string      `json:"subject_name"`
	Level         HealthLevel `json:"level"`
	Reasons       []string    `json:"reasons,omitempty"`
	Coverage      int         `json:"coverage"`
	Decaying      int         `json:"decaying"`
	DaysUntilExam *int        `json:"days_until_exam,omitempty"`
}

// ExamOutlook summarizes the nearest upcoming exam across all subjects.
type ExamOutlook struct {
	SubjectID       uuid.UUID `json:"subject_id"`
	SubjectName     string    `json:"subject_name"`
	ExamDate        time.Time `json:"exam_date"`
	DaysUntilExam   int       `json:"days_until_exam"`
	RemainingTopics int       `json:"remaining_topics"`
	TopicsPerDay    float64   `json:"topics_per_day"`
	Workload        Workload  `json:"workload"`
}

// ExamRef identifies one exam inside a cluster.
type ExamRef struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Date        time.Time `json:"date"`
}

// ExamCluster groups two or more exams falling within the cluster window of
// each other: compounded workload risk.
type ExamCluster struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Exams []ExamRef `json:"exams"`
}

// DaysUntil returns whole days from now (midnight-normalized) to date,
// negative for the past.
func DaysUntil(now, date time.Time) int {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := date.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// remainingTopics counts active topics not yet green.
func remainingTopics(s *domain.Subject) int {
	n := 0
	for i := range s.Topics {
		t := &s.Topics[i]
		if !t.Archived() && t.Status != domain.StatusGreen {
			n++
		}
	}
	return n
}

// NearestExamOutlook computes the workload for the closest upcoming exam. No
// upcoming exam means nil.
func NearestExamOutlook(now time.Time, subjects []domain.Subject) *ExamOutlook {
	var nearest *domain.Subject
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() || !s.HasExamUpcoming(now) {
			continue
		}
		if nearest == nil || s.ExamDate.Before(*nearest.ExamDate) {
			nearest = s
		}
	}
	if nearest == nil {
		return nil
	}

	days := DaysUntil(now, *nearest.ExamDate)
	if days < 0 {
		days = 0
	}
	remaining := remainingTopics(nearest)
	perDay := float64(remaining) / float64(max(1, days))

	workload := WorkloadLight
	switch {
	case perDay > 5:
		workload = WorkloadHeavy
	case perDay > 3:
		workload = WorkloadMedium
	}

	return &ExamOutlook{
		SubjectID:       nearest.ID,
		SubjectName:     nearest.Name,
		ExamDate:        *nearest.ExamDate,
		DaysUntilExam:   days,
		RemainingTopics: remaining,
		TopicsPerDay:    perDay,
		Workload:        workload,
	}
}

// DetectExamClusters scans upcoming exams sorted by date and grows a cluster
// while the gap to the next exam stays within windowDays. An exam joins at
// most one cluster (first cluster wins), so nothing is double counted, and a
// lone exam never forms a cluster.
func DetectExamClusters(now time.Time, subjects []domain.Subject, windowDays int) []ExamCluster {
	if windowDays <= 0 {
		windowDays = ExamClusterWindowDays
	}
	exams := make([]ExamRef, 0, len(subjects))
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() || !s.HasExamUpcoming(now) {
			continue
		}
		exams = append(exams, ExamRef{SubjectID: s.ID, SubjectName: s.Name, Date: *s.ExamDate})
	}
	sort.SliceStable(exams, func(i, j int) bool { return exams[i].Date.Before(exams[j].Date) })

	var clusters []ExamCluster
	for i := 0; i < len(exams); {
		j := i
		for j+1 < len(exams) && DaysUntil(exams[j].Date, exams[j+1].Date) <= windowDays {
			j++
		}
		if j > i {
			members := append([]ExamRef(nil), exams[i:j+1]...)
			clusters = append(clusters, ExamCluster{
				Start: members[0].Date,
				End:   members[len(members)-1].Date,
				Exams: members,
			})
		}
		i = j + 1
	}
	return clusters
}

// ClassifySubject applies the health rules: critical when coverage is under
// 30% with an exam at most 7 days out, warning when more than 30% of the
// topics have decayed past their threshold. Healthy subjects are left off
// attention lists.
func ClassifySubject(now time.Time, s *domain.Subject) SubjectHealth {
	progress := SubjectProgress(now, s)
	out := SubjectHealth{
		SubjectID:   s.ID,
		SubjectName: s.Name,
		Level:       HealthHealthy,
		Coverage:    progress.Coverage,
		Decaying:    progress.Decaying,
	}
	if s.HasExamUpcoming(now) {
		d := DaysUntil(now, *s.ExamDate)
		out.DaysUntilExam = &d
		if progress.Coverage < 30 && d <= 7 {
			out.Level = HealthCritical
			out.Reasons = append(out.Reasons, "exam imminent with low coverage")
		}
	}
	if out.Level == HealthHealthy && progress.Total > 0 &&
		float64(progress.Decaying)/float64(progress.Total) > 0.3 {
		out.Level = HealthWarning
		out.Reasons = append(out.Reasons, "many topics past review threshold")
	}
	return out
}

// NeedsAttention returns the critical and warning subjects, critical first,
// then by soonest exam. Healthy subjects are omitted.
func NeedsAttention(now time.Time, subjects []domain.Subject) []SubjectHealth {
	out := make([]SubjectHealth, 0)
	for i := range subjects {
		s := &subjects[i]
		if s.Archived() {
			continue
		}
		h := ClassifySubject(now, s)
		if h.Level != HealthHealthy {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level == HealthCritical
		}
		di, dj := NeverReviewedDays, NeverReviewedDays
		if out[i].DaysUntilExam != nil {
			di = *out[i].DaysUntilExam
		}
		if out[j].DaysUntilExam != nil {
			dj = *out[j].DaysUntilExam
		}
		return di < dj
	})
	return out
}
