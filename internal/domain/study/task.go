package study

import "github.com/google/uuid"

// PlannedTopic is one topic slot inside a daily task.
type PlannedTopic struct {
	TopicID uuid.UUID `json:"topic_id"`
	Number  int       `json:"number"`
	Name    string    `json:"name"`
	Reason  string    `json:"reason,omitempty"` // short human hint, e.g. "12d überfällig"
}

// DailyTask is the ephemeral planner output for one subject and tier. The
// core never stores it; the caller decides persistence.
type DailyTask struct {
	SubjectID    uuid.UUID      `json:"subject_id"`
	SubjectName  string         `json:"subject_name,omitempty"`
	Type         TaskType       `json:"type"`
	Topics       []PlannedTopic `json:"topics"`
	EstimatedMin int            `json:"estimated_min"`
	Completed    bool           `json:"completed"`
}

// TopicCount returns the number of topic slots the task occupies.
func (t *DailyTask) TopicCount() int {
	return len(t.Topics)
}
