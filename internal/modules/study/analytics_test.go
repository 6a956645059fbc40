package study

import (
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

func session(startedDaysAgo int, minutes int, quality *int) domain.TimerSession {
	start := testNow.AddDate(0, 0, -startedDaysAgo)
	return domain.TimerSession{
		ID:          uuid.New(),
		SubjectID:   uuid.New(),
		StartedAt:   start,
		EndedAt:     start.Add(time.Duration(minutes) * time.Minute),
		DurationMin: minutes,
	}
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	sessions := []domain.TimerSession{
		session(0, 30, nil),
		session(1, 45, nil),
		session(2, 20, nil),
		session(5, 60, nil), // gap: not part of the streak
	}
	if got := Streak(testNow, sessions); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
}

func TestStreak_YesterdayKeepsStreakAlive(t *testing.T) {
	sessions := []domain.TimerSession{session(1, 30, nil), session(2, 30, nil)}
	if got := Streak(testNow, sessions); got != 2 {
		t.Fatalf("a day is not missed until it is over; expected 2, got %d", got)
	}
}

func TestStreak_BrokenAfterFullMissedDay(t *testing.T) {
	sessions := []domain.TimerSession{session(2, 30, nil)}
	if got := Streak(testNow, sessions); got != 0 {
		t.Fatalf("expected broken streak, got %d", got)
	}
}

func TestStreak_NoSessions(t *testing.T) {
	if got := Streak(testNow, nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestWeeklyTotals_BucketsByWeek(t *testing.T) {
	sessions := []domain.TimerSession{
		session(0, 30, nil),
		session(1, 30, nil),
		session(8, 45, nil),
	}
	weeks := WeeklyTotals(testNow, sessions, 3)
	if len(weeks) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(weeks))
	}
	last := weeks[len(weeks)-1]
	if last.Minutes != 60 || last.Sessions != 2 {
		t.Fatalf("expected 60 min / 2 sessions in the current week, got %d/%d", last.Minutes, last.Sessions)
	}
	prev := weeks[len(weeks)-2]
	if prev.Minutes != 45 || prev.Sessions != 1 {
		t.Fatalf("expected 45 min / 1 session in the previous week, got %d/%d", prev.Minutes, prev.Sessions)
	}
}

func TestStats_AverageQuality(t *testing.T) {
	q3, q5 := 3, 5
	sessions := []domain.TimerSession{
		session(0, 30, nil),
		session(1, 30, nil),
	}
	sessions[0].Quality = &q3
	sessions[1].Quality = &q5
	stats := Stats(testNow, sessions)
	if stats.TotalMinutes != 60 || stats.TotalSessions != 2 {
		t.Fatalf("wrong totals: %+v", stats)
	}
	if stats.AvgQuality == nil || *stats.AvgQuality != 4.0 {
		t.Fatalf("expected avg quality 4.0, got %+v", stats.AvgQuality)
	}
}

func TestRecentSessions_NewestFirstWithoutMutation(t *testing.T) {
	sessions := []domain.TimerSession{
		session(5, 30, nil),
		session(0, 30, nil),
		session(20, 30, nil),
	}
	first := sessions[0].ID
	recent := RecentSessions(testNow, sessions, 7)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent sessions, got %d", len(recent))
	}
	if !recent[0].StartedAt.After(recent[1].StartedAt) {
		t.Fatalf("recent sessions not newest first")
	}
	if sessions[0].ID != first {
		t.Fatalf("input slice was reordered")
	}
}
