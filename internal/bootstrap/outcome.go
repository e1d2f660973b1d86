package bootstrap

import "strings"

// Status classifies a step outcome.
type Status int

const (
	// StatusOK marks a step that did its work or confirmed it was done.
	StatusOK Status = iota
	// StatusSkipped marks idempotence short-circuits (already provisioned).
	StatusSkipped
	// StatusWarn marks declined or degraded optional steps.
	StatusWarn
	// StatusFatal aborts the run when the step is required.
	StatusFatal
)

// String returns the status label used in output and the journal.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusWarn:
		return "warn"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result every step returns.
type Outcome struct {
	Status Status
	Detail string
	Err    error
}

// OK reports success with an optional detail line.
func OK(detail string) Outcome {
	return Outcome{Status: StatusOK, Detail: strings.TrimSpace(detail)}
}

// Skipped reports an idempotent no-op.
func Skipped(detail string) Outcome {
	return Outcome{Status: StatusSkipped, Detail: strings.TrimSpace(detail)}
}

// Warn reports a non-fatal degradation.
func Warn(detail string) Outcome {
	return Outcome{Status: StatusWarn, Detail: strings.TrimSpace(detail)}
}

// Fatal reports a failure that aborts the run. The hint, when non-empty, is
// printed as remediation guidance before the process exits.
func Fatal(err error, hint string) Outcome {
	return Outcome{Status: StatusFatal, Err: err, Detail: strings.TrimSpace(hint)}
}
