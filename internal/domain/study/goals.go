package study

// StudyGoals is caller-supplied planning configuration. The core treats it as
// input only and never persists or mutates it.
type StudyGoals struct {
	DailyMinutes         int     `json:"daily_minutes" yaml:"daily_minutes"`
	WeekendMinutes       int     `json:"weekend_minutes" yaml:"weekend_minutes"`
	VacationMode         bool    `json:"vacation_mode" yaml:"vacation_mode"`
	VacationMultiplier   float64 `json:"vacation_multiplier" yaml:"vacation_multiplier"`
	MaxReviewsPerDay     int     `json:"max_reviews_per_day" yaml:"max_reviews_per_day"`
	NewMaterialQuota     float64 `json:"new_material_quota" yaml:"new_material_quota"` // fraction of daily topics
	MinutesPerTopic      int     `json:"minutes_per_topic" yaml:"minutes_per_topic"`   // 0 = per-size estimate
}

// DefaultGoals returns the goals used when the caller configures nothing.
func DefaultGoals() StudyGoals {
	return StudyGoals{
		DailyMinutes:       120,
		WeekendMinutes:     180,
		VacationMultiplier: 0.5,
		MaxReviewsPerDay:   20,
		NewMaterialQuota:   0.25,
	}
}

// DailyStatus carries the day flags that shrink the study budget.
type DailyStatus struct {
	Sick    bool `json:"sick"`
	Holiday bool `json:"holiday"`
}
