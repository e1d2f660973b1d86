package bootstrap

import "fmt"

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiDim    = "\x1b[2m"
)

func (r *Runner) statusLabel(status Status) string {
	label := fmt.Sprintf("[%s]", status)
	if !r.colorize {
		return label
	}
	switch status {
	case StatusOK:
		return ansiGreen + label + ansiReset
	case StatusSkipped:
		return ansiDim + label + ansiReset
	case StatusWarn:
		return ansiYellow + label + ansiReset
	case StatusFatal:
		return ansiRed + label + ansiReset
	default:
		return label
	}
}

func (r *Runner) printOutcome(name string, outcome Outcome) {
	detail := outcome.Detail
	if outcome.Status == StatusFatal && outcome.Err != nil {
		detail = outcome.Err.Error()
	}
	if detail == "" {
		fmt.Fprintf(r.out, "%-14s %s\n", name, r.statusLabel(outcome.Status))
		return
	}
	fmt.Fprintf(r.out, "%-14s %s %s\n", name, r.statusLabel(outcome.Status), detail)
}

// printCheck prints one self-check line, indented under the self-check step.
func (r *Runner) printCheck(name string, status Status, detail string) {
	if detail == "" {
		fmt.Fprintf(r.out, "    %-22s %s\n", name, r.statusLabel(status))
		return
	}
	fmt.Fprintf(r.out, "    %-22s %s %s\n", name, r.statusLabel(status), detail)
}
