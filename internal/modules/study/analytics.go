package study

import (
	"sort"
	"time"

	domain "github.com/theodore333/vayne-study-sub002/internal/domain/study"
)

// WeekTotal aggregates one calendar week of study sessions.
type WeekTotal struct {
	WeekStart time.Time `json:"week_start"` // Monday, midnight
	Minutes   int       `json:"minutes"`
	Sessions  int       `json:"sessions"`
}

// SessionStats is the rollup over the full session history.
type SessionStats struct {
	TotalMinutes  int      `json:"total_minutes"`
	TotalSessions int      `json:"total_sessions"`
	StreakDays    int      `json:"streak_days"`
	AvgQuality    *float64 `json:"avg_quality,omitempty"`
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mondayOf(t time.Time) time.Time {
	d := dayOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// Streak counts consecutive days with at least one session, ending today or
// yesterday (a streak is not broken until a full day has been missed).
func Streak(now time.Time, sessions []domain.TimerSession) int {
	if len(sessions) == 0 {
		return 0
	}
	days := make(map[time.Time]bool, len(sessions))
	for i := range sessions {
		days[dayOf(sessions[i].StartedAt)] = true
	}

	cursor := dayOf(now)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor] {
			return 0
		}
	}
	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// WeeklyTotals returns per-week minutes for the last weeks calendar weeks,
// oldest first, including empty weeks.
func WeeklyTotals(now time.Time, sessions []domain.TimerSession, weeks int) []WeekTotal {
	if weeks <= 0 {
		weeks = 4
	}
	start := mondayOf(now).AddDate(0, 0, -7*(weeks-1))
	byWeek := make(map[time.Time]*WeekTotal, weeks)
	out := make([]WeekTotal, weeks)
	for i := 0; i < weeks; i++ {
		ws := start.AddDate(0, 0, 7*i)
		out[i] = WeekTotal{WeekStart: ws}
		byWeek[ws] = &out[i]
	}
	for i := range sessions {
		s := &sessions[i]
		w, ok := byWeek[mondayOf(s.StartedAt)]
		if !ok {
			continue
		}
		w.Minutes += s.DurationMin
		w.Sessions++
	}
	return out
}

// Stats computes the full-history rollup.
func Stats(now time.Time, sessions []domain.TimerSession) SessionStats {
	out := SessionStats{StreakDays: Streak(now, sessions)}
	qualitySum := 0
	qualityN := 0
	for i := range sessions {
		s := &sessions[i]
		out.TotalSessions++
		out.TotalMinutes += s.DurationMin
		if s.Quality != nil {
			qualitySum += *s.Quality
			qualityN++
		}
	}
	if qualityN > 0 {
		avg := float64(qualitySum) / float64(qualityN)
		out.AvgQuality = &avg
	}
	return out
}

// RecentSessions returns the sessions started within the last days, newest
// first, without mutating the input.
func RecentSessions(now time.Time, sessions []domain.TimerSession, days int) []domain.TimerSession {
	if days <= 0 {
		days = 7
	}
	cutoff := dayOf(now).AddDate(0, 0, -days)
	out := make([]domain.TimerSession, 0, len(sessions))
	for i := range sessions {
		if !sessions[i].StartedAt.Before(cutoff) {
			out = append(out, sessions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
