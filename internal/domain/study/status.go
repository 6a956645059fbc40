package study

// Status is the coarse mastery bucket of a topic.
type Status string

const (
	StatusGray   Status = "gray"   // untouched / no material worked through
	StatusOrange Status = "orange" // started, still weak
	StatusYellow Status = "yellow" // solid but not exam-ready
	StatusGreen  Status = "green"  // mastered
)

// StatusInfo carries the per-bucket presentation and weighting data. There is
// exactly one table; every consumer (progress, prediction, planner) reads it
// here so the weights cannot drift apart.
type StatusInfo struct {
	Label  string
	Weight float64 // contribution to subject progress, 0..1
	Color  string  // hex, passthrough for UI correlation
}

var statusTable = map[Status]StatusInfo{
	StatusGray:   {Label: "Nicht begonnen", Weight: 0.0, Color: "#9ca3af"},
	StatusOrange: {Label: "In Arbeit", Weight: 0.3, Color: "#f97316"},
	StatusYellow: {Label: "Fast sicher", Weight: 0.6, Color: "#eab308"},
	StatusGreen:  {Label: "Sicher", Weight: 1.0, Color: "#22c55e"},
}

func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

func (s Status) Info() StatusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return statusTable[StatusGray]
}

// Weight returns the progress weight of the bucket. Unknown values count as gray.
func (s Status) Weight() float64 {
	return s.Info().Weight
}

// TopicSize is a coarse effort estimate used to convert a minute budget into a
// topic count.
type TopicSize string

const (
	SizeSmall  TopicSize = "small"
	SizeMedium TopicSize = "medium"
	SizeLarge  TopicSize = "large"
)

// Minutes returns the estimated study minutes for a topic of this size.
// Unset or unknown sizes fall back to the medium estimate.
func (s TopicSize) Minutes() int {
	switch s {
	case SizeSmall:
		return 15
	case SizeMedium:
		return 25
	case SizeLarge:
		return 40
	default:
		return 25
	}
}

// TaskType classifies a planned daily task.
type TaskType string

const (
	TaskSetup     TaskType = "setup"    // subject is missing material/exam date, admin work
	TaskCritical  TaskType = "critical" // exam imminent or class tomorrow
	TaskHigh      TaskType = "high"     // overdue review
	TaskMedium    TaskType = "medium"
	TaskNormal    TaskType = "normal" // new material
	TaskProject   TaskType = "project"
	TaskTechnique TaskType = "technique"
)

var taskTypeRank = map[TaskType]int{
	TaskSetup:     0,
	TaskCritical:  1,
	TaskHigh:      2,
	TaskMedium:    3,
	TaskNormal:    4,
	TaskProject:   5,
	TaskTechnique: 6,
}

// Rank returns the priority order of the task type, lower is more urgent.
// Unknown types sort last.
func (t TaskType) Rank() int {
	if r, ok := taskTypeRank[t]; ok {
		return r
	}
	return len(taskTypeRank)
}

func (t TaskType) Valid() bool {
	_, ok := taskTypeRank[t]
	return ok
}
