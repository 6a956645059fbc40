package study

import (
	"testing"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

func topicWithStatus(num int, status domain.Status) domain.Topic {
	return domain.Topic{
		ID:          uuid.New(),
		Number:      num,
		Name:        "Thema",
		Status:      status,
		HasMaterial: true,
		LastReview:  daysAgo(1),
	}
}

func TestSubjectProgress_WeightedPercentage(t *testing.T) {
	s := domain.Subject{
		ID: uuid.New(),
		Topics: []domain.Topic{
			topicWithStatus(1, domain.StatusGreen),
			topicWithStatus(2, domain.StatusGreen),
			topicWithStatus(3, domain.StatusYellow),
			topicWithStatus(4, domain.StatusOrange),
			topicWithStatus(5, domain.StatusGray),
		},
	}
	p := SubjectProgress(testNow, &s)
	if p.Total != 5 || p.Green != 2 || p.Yellow != 1 || p.Orange != 1 || p.Gray != 1 {
		t.Fatalf("wrong bucket counts: %+v", p)
	}
	// (1.0 + 1.0 + 0.6 + 0.3 + 0.0) / 5 = 0.58
	if p.Percentage != 58 {
		t.Fatalf("expected 58%%, got %d%%", p.Percentage)
	}
	if p.Coverage != 100 {
		t.Fatalf("expected 100%% coverage, got %d%%", p.Coverage)
	}
}

func TestSubjectProgress_ZeroTopicsIsZeroNotNaN(t *testing.T) {
	s := domain.Subject{ID: uuid.New(), Topics: []domain.Topic{}}
	p := SubjectProgress(testNow, &s)
	if p.Total != 0 || p.Percentage != 0 || p.Coverage != 0 {
		t.Fatalf("expected zero summary, got %+v", p)
	}
}

func TestSubjectProgress_SkipsArchivedTopics(t *testing.T) {
	archived := topicWithStatus(2, domain.StatusGray)
	archived.ArchivedAt = &testNow
	s := domain.Subject{
		ID:     uuid.New(),
		Topics: []domain.Topic{topicWithStatus(1, domain.StatusGreen), archived},
	}
	p := SubjectProgress(testNow, &s)
	if p.Total != 1 || p.Percentage != 100 {
		t.Fatalf("archived topic leaked into progress: %+v", p)
	}
}

func TestSubjectProgress_CountsDecaying(t *testing.T) {
	stale := topicWithStatus(1, domain.StatusYellow)
	stale.LastReview = daysAgo(30)
	s := domain.Subject{
		ID:     uuid.New(),
		Topics: []domain.Topic{stale, topicWithStatus(2, domain.StatusGreen)},
	}
	p := SubjectProgress(testNow, &s)
	if p.Decaying != 1 {
		t.Fatalf("expected 1 decaying topic, got %d", p.Decaying)
	}
}

func TestSubjectProgress_AvgGradeIgnoresInvalid(t *testing.T) {
	a := topicWithStatus(1, domain.StatusGreen)
	a.AvgGrade = gradePtr(5.0)
	b := topicWithStatus(2, domain.StatusYellow)
	bad := 42.0
	b.AvgGrade = &bad
	s := domain.Subject{ID: uuid.New(), Topics: []domain.Topic{a, b}}
	p := SubjectProgress(testNow, &s)
	if p.AvgGrade == nil || *p.AvgGrade != 5.0 {
		t.Fatalf("expected avg 5.0 with invalid grade ignored, got %+v", p.AvgGrade)
	}
}

func TestIsReadyForStudy(t *testing.T) {
	exam := testNow.AddDate(0, 0, 14)

	ready := domain.Subject{
		ID:       uuid.New(),
		ExamDate: &exam,
		Topics:   []domain.Topic{topicWithStatus(1, domain.StatusGray)},
	}
	if !IsReadyForStudy(&ready) {
		t.Fatalf("subject with exam date and material must be ready")
	}

	noExam := ready
	noExam.ExamDate = nil
	if IsReadyForStudy(&noExam) {
		t.Fatalf("subject without exam date must not be ready")
	}

	bare := domain.Subject{
		ID:       uuid.New(),
		ExamDate: &exam,
		Topics:   []domain.Topic{{ID: uuid.New(), Number: 1, Status: domain.StatusGray}},
	}
	if IsReadyForStudy(&bare) {
		t.Fatalf("subject without material or quizzes must not be ready")
	}

	quizzed := bare
	quizzed.Topics = []domain.Topic{{ID: uuid.New(), Number: 1, Status: domain.StatusGray, QuizCount: 2}}
	if !IsReadyForStudy(&quizzed) {
		t.Fatalf("quiz history counts as study substance")
	}
}

func TestGradeEquivalent_PrefersRecordedGrade(t *testing.T) {
	topic := topicWithStatus(1, domain.StatusOrange)
	topic.AvgGrade = gradePtr(5.5)
	if eq := gradeEquivalent(&topic, 2.5); eq != 5.5 {
		t.Fatalf("expected recorded grade 5.5, got %.2f", eq)
	}
}

func TestGradeEquivalent_StatusFallback(t *testing.T) {
	cases := []struct {
		status domain.Status
		want   float64
	}{
		{domain.StatusGreen, 6.0},
		{domain.StatusYellow, 4.4},
		{domain.StatusOrange, 3.2},
		{domain.StatusGray, 2.5},
	}
	for _, tc := range cases {
		topic := domain.Topic{Status: tc.status}
		got := gradeEquivalent(&topic, 2.5)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("%s: expected %.2f, got %.2f", tc.status, tc.want, got)
		}
	}
}
