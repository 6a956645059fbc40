package study

import (
	"testing"
	"time"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func gradePtr(g float64) *float64 { return &g }

func TestDaysSince_NilDateUsesSentinel(t *testing.T) {
	if got := DaysSince(testNow, nil); got != NeverReviewedDays {
		t.Fatalf("expected sentinel %d, got %d", NeverReviewedDays, got)
	}
}

func TestDaysSince_FutureDateFlooredAtZero(t *testing.T) {
	future := testNow.AddDate(0, 0, 3)
	if got := DaysSince(testNow, &future); got != 0 {
		t.Fatalf("expected 0 for future date, got %d", got)
	}
}

func TestDaysSince_FloorsPartialDays(t *testing.T) {
	d := testNow.Add(-36 * time.Hour)
	if got := DaysSince(testNow, &d); got != 1 {
		t.Fatalf("expected 1 day for 36h, got %d", got)
	}
}

func TestReviewThreshold_Bands(t *testing.T) {
	cases := []struct {
		name string
		avg  *float64
		want int
	}{
		{"no grade", nil, 5},
		{"excellent", gradePtr(5.9), 21}, // 97.5%
		{"very good", gradePtr(5.5), 16}, // 87.5%
		{"good", gradePtr(5.0), 12},      // 75%
		{"ok", gradePtr(4.2), 8},         // 55%
		{"weak", gradePtr(3.0), 5},       // 25%
	}
	for _, tc := range cases {
		topic := domain.Topic{Status: domain.StatusYellow, AvgGrade: tc.avg}
		if got := ReviewThreshold(&topic); got != tc.want {
			t.Fatalf("%s: expected threshold %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestReviewThreshold_MonotoneInGrade(t *testing.T) {
	prev := 0
	for g := 6.0; g >= 2.0; g -= 0.1 {
		topic := domain.Topic{Status: domain.StatusYellow, AvgGrade: gradePtr(g)}
		th := ReviewThreshold(&topic)
		if prev != 0 && th > prev {
			t.Fatalf("threshold increased from %d to %d as grade dropped to %.2f", prev, th, g)
		}
		prev = th
	}
}

func TestNeedsReview_GrayNeverNeedsReview(t *testing.T) {
	topic := domain.Topic{Status: domain.StatusGray, LastReview: daysAgo(400)}
	if NeedsReview(testNow, &topic) {
		t.Fatalf("gray topic must never need review")
	}
}

func TestNeedsReview_PastThreshold(t *testing.T) {
	topic := domain.Topic{Status: domain.StatusGreen, AvgGrade: gradePtr(5.0), LastReview: daysAgo(12)}
	if !NeedsReview(testNow, &topic) {
		t.Fatalf("topic at its threshold must need review")
	}
	topic.LastReview = daysAgo(11)
	if NeedsReview(testNow, &topic) {
		t.Fatalf("topic inside its threshold must not need review")
	}
}

func TestNeedsReview_NeverReviewedNonGray(t *testing.T) {
	topic := domain.Topic{Status: domain.StatusOrange}
	if !NeedsReview(testNow, &topic) {
		t.Fatalf("never-reviewed non-gray topic must need review")
	}
}

func TestAverageGrade_IgnoresOutOfRange(t *testing.T) {
	avg := AverageGrade([]float64{4.0, 5.0, 0.0, 66.0})
	if avg == nil {
		t.Fatalf("expected an average")
	}
	if *avg != 4.5 {
		t.Fatalf("expected 4.5 with invalid grades ignored, got %.2f", *avg)
	}
}

func TestAverageGrade_AllInvalidYieldsNil(t *testing.T) {
	if avg := AverageGrade([]float64{1.0, 7.0}); avg != nil {
		t.Fatalf("expected nil for all-invalid history, got %.2f", *avg)
	}
}

func TestDaysOverdue(t *testing.T) {
	topic := domain.Topic{Status: domain.StatusYellow, AvgGrade: gradePtr(5.0), LastReview: daysAgo(20)}
	if got := DaysOverdue(testNow, &topic); got != 8 {
		t.Fatalf("expected 8 days overdue, got %d", got)
	}
	topic.LastReview = daysAgo(2)
	if got := DaysOverdue(testNow, &topic); got != 0 {
		t.Fatalf("expected 0 for fresh topic, got %d", got)
	}
}
