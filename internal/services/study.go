package services

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
	study "github.com/theodore333/vayne-study-sub002/internal/modules/study"
	"github.com/theodore333/vayne-study-sub002/internal/platform/apierr"
	"github.com/theodore333/vayne-study-sub002/internal/platform/logger"
)

// Snapshot is the caller-owned state the service computes over. The service
// never mutates it and holds no state of its own between calls.
type Snapshot struct {
	Subjects []domain.Subject      `json:"subjects"`
	Sessions []domain.TimerSession `json:"sessions,omitempty"`
	Goals    *domain.StudyGoals    `json:"goals,omitempty"` // nil uses the configured default
	Status   domain.DailyStatus    `json:"status"`
}

// SubjectSummary is one dashboard row.
type SubjectSummary struct {
	SubjectID uuid.UUID             `json:"subject_id"`
	Name      string                `json:"name"`
	Color     string                `json:"color,omitempty"`
	Ready     bool                  `json:"ready"`
	Progress  study.ProgressSummary `json:"progress"`
}

// DashboardView is the aggregate the dashboard screen renders.
type DashboardView struct {
	Subjects  []SubjectSummary      `json:"subjects"`
	Attention []study.SubjectHealth `json:"attention,omitempty"`
	NextExam  *study.ExamOutlook    `json:"next_exam,omitempty"`
	Clusters  []study.ExamCluster   `json:"clusters,omitempty"`
	Sessions  study.SessionStats    `json:"sessions"`
}

// SubjectIssue records a subject that could not be predicted; the rest of the
// snapshot still computes.
type SubjectIssue struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Code      string    `json:"code"`
}

// PredictionSet is the multi-subject prediction response.
type PredictionSet struct {
	Predictions []study.GradePrediction `json:"predictions"`
	Skipped     []SubjectIssue          `json:"skipped,omitempty"`
}

// DueReview is the JSON shape of one retention-due topic.
type DueReview struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	TopicID        uuid.UUID `json:"topic_id"`
	Number         int       `json:"number"`
	Name           string    `json:"name"`
	Retrievability float64   `json:"retrievability"`
	Due            time.Time `json:"due"`
}

type StudyService interface {
	Dashboard(ctx context.Context, snap Snapshot) (*DashboardView, error)
	Predictions(ctx context.Context, snap Snapshot, seed int64) (*PredictionSet, error)
	SubjectPrediction(ctx context.Context, snap Snapshot, subjectID uuid.UUID, seed int64) (*study.GradePrediction, error)
	DueReviews(ctx context.Context, snap Snapshot) ([]DueReview, error)
	TodayPlan(ctx context.Context, snap Snapshot) (*study.DailyPlan, error)
	Reconcile(ctx context.Context, snap Snapshot, external []domain.DailyTask) ([]domain.DailyTask, error)
}

type studyService struct {
	log    *logger.Logger
	cache  *PlanCache
	params study.PredictionParams
	goals  domain.StudyGoals
	now    func() time.Time
}

// NewStudyService builds the service. goals is the server-side default used
// whenever a snapshot carries no goals of its own.
func NewStudyService(log *logger.Logger, cache *PlanCache, params study.PredictionParams, goals domain.StudyGoals) StudyService {
	return &studyService{
		log:    log.With("service", "StudyService"),
		cache:  cache,
		params: params,
		goals:  goals,
		now:    time.Now,
	}
}

// goalsFor resolves the effective goals: the snapshot's own when present,
// otherwise the configured server default.
func (s *studyService) goalsFor(snap Snapshot) domain.StudyGoals {
	if snap.Goals != nil {
		return *snap.Goals
	}
	return s.goals
}

func (s *studyService) Dashboard(ctx context.Context, snap Snapshot) (*DashboardView, error) {
	now := s.now()
	view := &DashboardView{
		Subjects: make([]SubjectSummary, 0, len(snap.Subjects)),
		Sessions: study.Stats(now, snap.Sessions),
	}
	for i := range snap.Subjects {
		sub := &snap.Subjects[i]
		if sub.Archived() {
			continue
		}
		view.Subjects = append(view.Subjects, SubjectSummary{
			SubjectID: sub.ID,
			Name:      sub.Name,
			Color:     sub.Color,
			Ready:     study.IsReadyForStudy(sub),
			Progress:  study.SubjectProgress(now, sub),
		})
	}
	view.Attention = study.NeedsAttention(now, snap.Subjects)
	view.NextExam = study.NearestExamOutlook(now, snap.Subjects)
	view.Clusters = study.DetectExamClusters(now, snap.Subjects, study.ExamClusterWindowDays)
	return view, nil
}

// Predictions fans out per subject. One subject's bad data never blocks the
// others: contract errors are collected per subject and the remaining results
// are returned.
func (s *studyService) Predictions(ctx context.Context, snap Snapshot, seed int64) (*PredictionSet, error) {
	now := s.now()
	results := make([]*study.GradePrediction, len(snap.Subjects))
	issues := make([]*SubjectIssue, len(snap.Subjects))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range snap.Subjects {
		i := i
		g.Go(func() error {
			sub := &snap.Subjects[i]
			if sub.Archived() {
				return nil
			}
			// Each subject gets its own deterministic stream derived from the
			// caller seed, so concurrency cannot reorder draws.
			rng := rand.New(rand.NewSource(seed + int64(i)))
			pred, err := study.PredictWithSimulation(now, sub, s.params, rng)
			switch {
			case errors.Is(err, study.ErrNoTopics):
				return nil // excluded, not an issue
			case errors.Is(err, study.ErrTopicsRequired):
				issues[i] = &SubjectIssue{SubjectID: sub.ID, Code: "topics_required"}
				return nil
			case err != nil:
				issues[i] = &SubjectIssue{SubjectID: sub.ID, Code: "prediction_failed"}
				s.log.Warn("prediction failed", "subject_id", sub.ID, "error", err)
				return nil
			}
			results[i] = &pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &PredictionSet{Predictions: make([]study.GradePrediction, 0, len(results))}
	for i := range results {
		if results[i] != nil {
			out.Predictions = append(out.Predictions, *results[i])
		}
		if issues[i] != nil {
			out.Skipped = append(out.Skipped, *issues[i])
		}
	}
	return out, nil
}

func (s *studyService) SubjectPrediction(ctx context.Context, snap Snapshot, subjectID uuid.UUID, seed int64) (*study.GradePrediction, error) {
	now := s.now()
	for i := range snap.Subjects {
		sub := &snap.Subjects[i]
		if sub.ID != subjectID {
			continue
		}
		rng := rand.New(rand.NewSource(seed))
		pred, err := study.PredictWithSimulation(now, sub, s.params, rng)
		if err != nil {
			return nil, apierr.New(http.StatusUnprocessableEntity, "prediction_failed", err)
		}
		return &pred, nil
	}
	return nil, apierr.New(http.StatusNotFound, "subject_not_found", nil)
}

func (s *studyService) DueReviews(ctx context.Context, snap Snapshot) ([]DueReview, error) {
	now := s.now()
	goals := s.goalsFor(snap)

	out := make([]DueReview, 0)
	for i := range snap.Subjects {
		sub := &snap.Subjects[i]
		if sub.Archived() {
			continue
		}
		due := study.SelectDueTopics(now, sub.Topics, 0, study.DefaultTargetRetention)
		for _, d := range due {
			out = append(out, DueReview{
				SubjectID:      sub.ID,
				TopicID:        d.Topic.ID,
				Number:         d.Topic.Number,
				Name:           d.Topic.Name,
				Retrievability: d.Retrievability,
				Due:            d.Due,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Retrievability != out[j].Retrievability {
			return out[i].Retrievability < out[j].Retrievability
		}
		return out[i].Due.Before(out[j].Due)
	})
	if goals.MaxReviewsPerDay > 0 && len(out) > goals.MaxReviewsPerDay {
		out = out[:goals.MaxReviewsPerDay]
	}
	return out, nil
}

func (s *studyService) TodayPlan(ctx context.Context, snap Snapshot) (*study.DailyPlan, error) {
	now := s.now()
	in := study.PlanInput{Subjects: snap.Subjects, Goals: s.goalsFor(snap), Status: snap.Status}

	key := PlanKey(now, in)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	plan := study.BuildDailyPlan(now, in)
	s.cache.Put(ctx, key, &plan)
	return &plan, nil
}

func (s *studyService) Reconcile(ctx context.Context, snap Snapshot, external []domain.DailyTask) ([]domain.DailyTask, error) {
	now := s.now()
	in := study.PlanInput{Subjects: snap.Subjects, Goals: s.goalsFor(snap), Status: snap.Status}
	return study.ReconcilePlan(now, external, in), nil
}
