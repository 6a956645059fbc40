package study

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

func predictionSubject() domain.Subject {
	exam := testNow.AddDate(0, 0, 10)
	return domain.Subject{
		ID:       uuid.New(),
		Name:     "Rechnungswesen",
		ExamDate: &exam,
		Topics: []domain.Topic{
			topicWithStatus(1, domain.StatusGreen),
			topicWithStatus(2, domain.StatusGreen),
			topicWithStatus(3, domain.StatusYellow),
			topicWithStatus(4, domain.StatusOrange),
			topicWithStatus(5, domain.StatusGray),
		},
	}
}

func TestPredictGrade_WithinScale(t *testing.T) {
	s := predictionSubject()
	pred, err := PredictGrade(testNow, &s, DefaultPredictionParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Current < domain.GradeMin || pred.Current > domain.GradeMax {
		t.Fatalf("current %.2f outside [2,6]", pred.Current)
	}
	if pred.Potential < domain.GradeMin || pred.Potential > domain.GradeMax {
		t.Fatalf("potential %.2f outside [2,6]", pred.Potential)
	}
}

func TestPredictGrade_PotentialNeverBelowCurrent(t *testing.T) {
	subjects := []domain.Subject{predictionSubject()}

	// All-green subject: potential must still dominate.
	allGreen := predictionSubject()
	for i := range allGreen.Topics {
		allGreen.Topics[i].Status = domain.StatusGreen
		allGreen.Topics[i].AvgGrade = gradePtr(5.8)
	}
	subjects = append(subjects, allGreen)

	// All-gray subject.
	allGray := predictionSubject()
	for i := range allGray.Topics {
		allGray.Topics[i].Status = domain.StatusGray
	}
	subjects = append(subjects, allGray)

	for i := range subjects {
		pred, err := PredictGrade(testNow, &subjects[i], DefaultPredictionParams())
		if err != nil {
			t.Fatalf("subject %d: unexpected error: %v", i, err)
		}
		if pred.Potential < pred.Current {
			t.Fatalf("subject %d: potential %.3f below current %.3f", i, pred.Potential, pred.Current)
		}
	}
}

func TestPredictGrade_NilTopicsIsContractError(t *testing.T) {
	s := domain.Subject{ID: uuid.New(), Name: "kaputt"}
	_, err := PredictGrade(testNow, &s, DefaultPredictionParams())
	if !errors.Is(err, ErrTopicsRequired) {
		t.Fatalf("expected ErrTopicsRequired, got %v", err)
	}
}

func TestPredictGrade_EmptySubjectExcluded(t *testing.T) {
	s := domain.Subject{ID: uuid.New(), Topics: []domain.Topic{}}
	_, err := PredictGrade(testNow, &s, DefaultPredictionParams())
	if !errors.Is(err, ErrNoTopics) {
		t.Fatalf("expected ErrNoTopics, got %v", err)
	}
}

func TestPredictGrade_StaleTopicsLowerEstimate(t *testing.T) {
	fresh := predictionSubject()
	stale := predictionSubject()
	for i := range stale.Topics {
		if stale.Topics[i].Status != domain.StatusGray {
			stale.Topics[i].LastReview = daysAgo(60)
		}
	}
	pf, err := PredictGrade(testNow, &fresh, DefaultPredictionParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ps, err := PredictGrade(testNow, &stale, DefaultPredictionParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.Current >= pf.Current {
		t.Fatalf("stale subject %.3f should score below fresh subject %.3f", ps.Current, pf.Current)
	}
}

func TestPredictGrade_BetterMasteryScoresHigher(t *testing.T) {
	weak := predictionSubject()
	strong := predictionSubject()
	for i := range strong.Topics {
		strong.Topics[i].Status = domain.StatusGreen
		strong.Topics[i].AvgGrade = gradePtr(5.5)
	}
	pw, _ := PredictGrade(testNow, &weak, DefaultPredictionParams())
	psg, _ := PredictGrade(testNow, &strong, DefaultPredictionParams())
	if psg.Current <= pw.Current {
		t.Fatalf("strong subject %.3f should beat weak subject %.3f", psg.Current, pw.Current)
	}
}

func TestFormatFit_CaseStudyPenaltyAndBonus(t *testing.T) {
	build := func(openScore float64) domain.Subject {
		s := predictionSubject()
		s.ExamFormat = "MC und Fallstudie"
		s.Topics[0].QuizHistory = []domain.QuizResult{
			{Score: 80, Date: testNow.AddDate(0, 0, -5), BloomLevel: "remember"},
			{Score: openScore, Date: testNow.AddDate(0, 0, -4), BloomLevel: "analyze"},
		}
		return s
	}

	weakOpen := build(30)
	strongOpen := build(100)
	pw, _ := PredictGrade(testNow, &weakOpen, DefaultPredictionParams())
	ps, _ := PredictGrade(testNow, &strongOpen, DefaultPredictionParams())
	if ps.Current <= pw.Current {
		t.Fatalf("strong open-question history %.3f should beat weak %.3f", ps.Current, pw.Current)
	}
}

func TestFormatFit_NoHistoryNoAdjustment(t *testing.T) {
	plain := predictionSubject()
	cased := predictionSubject()
	cased.ExamFormat = "Fallstudie"
	// Same IDs are irrelevant for the estimate; no quiz history means no fit
	// signal either way.
	pp, _ := PredictGrade(testNow, &plain, DefaultPredictionParams())
	pc, _ := PredictGrade(testNow, &cased, DefaultPredictionParams())
	if pp.Current != pc.Current {
		t.Fatalf("format without history changed the estimate: %.3f vs %.3f", pp.Current, pc.Current)
	}
}

func TestPredictGrade_DoesNotMutateInput(t *testing.T) {
	s := predictionSubject()
	before := make([]domain.Status, len(s.Topics))
	for i := range s.Topics {
		before[i] = s.Topics[i].Status
	}
	if _, err := PredictGrade(testNow, &s, DefaultPredictionParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range s.Topics {
		if s.Topics[i].Status != before[i] {
			t.Fatalf("topic %d status mutated", i)
		}
	}
}
