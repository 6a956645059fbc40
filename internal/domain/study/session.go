package study

import (
	"time"

	"github.com/google/uuid"
)

// TimerSession is an immutable historical study session record. Sessions are
// never mutated after completion; analytics only reads them.
type TimerSession struct {
	ID          uuid.UUID  `json:"id"`
	SubjectID   uuid.UUID  `json:"subject_id"`
	TopicID     *uuid.UUID `json:"topic_id,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     time.Time  `json:"ended_at"`
	DurationMin int        `json:"duration_min"`
	Quality     *int       `json:"quality,omitempty"` // 1..5 self rating
}
