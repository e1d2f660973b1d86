package journal

import "time"

// Run outcome values.
const (
	OutcomeRunning = "running"
	OutcomeSuccess = "success"
	OutcomeWarning = "warning"
	OutcomeFatal   = "fatal"
)

// Run describes one bootstrap invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Outcome    string
	FatalStep  string
	Warnings   int
}

// StepRecord describes one step outcome within a run.
type StepRecord struct {
	RunID    string
	Position int
	Name     string
	Status   string
	Detail   string
}
