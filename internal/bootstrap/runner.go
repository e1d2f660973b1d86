package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"easel/internal/config"
	"easel/internal/deps"
	"easel/internal/journal"
	"easel/internal/venv"
)

// ErrAlreadyRunning is returned when another setup holds the instance lock.
var ErrAlreadyRunning = errors.New("another easel setup is already running")

// Step is one provisioning action in the fixed bootstrap sequence.
type Step struct {
	Name     string
	Required bool
	Run      func(ctx context.Context) Outcome
}

// StepResult pairs a step with its outcome for reporting.
type StepResult struct {
	Name    string
	Outcome Outcome
}

// Report summarizes a completed (or aborted) bootstrap run.
type Report struct {
	Results   []StepResult
	Warnings  []string
	FatalStep string
}

// Outcome returns the journal outcome label for the run.
func (r Report) Outcome() string {
	if r.FatalStep != "" {
		return journal.OutcomeFatal
	}
	if len(r.Warnings) > 0 {
		return journal.OutcomeWarning
	}
	return journal.OutcomeSuccess
}

// Runner executes the bootstrap sequence against a config.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	input  InputProvider

	interactive bool
	skipInstall bool
	colorize    bool

	venvRunner venv.Runner
	smokeTest  func(ctx context.Context) error

	// resolved by the python step, consumed by the virtualenv step
	interp deps.Interpreter
}

// Option customizes the runner.
type Option func(*Runner)

// WithOutput overrides where status lines are written (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithInput overrides how prompt answers are read.
func WithInput(input InputProvider) Option {
	return func(r *Runner) {
		if input != nil {
			r.input = input
		}
	}
}

// WithInteractive controls whether prompts are issued at all. Non-interactive
// runs take every prompt's skip default.
func WithInteractive(interactive bool) Option {
	return func(r *Runner) {
		r.interactive = interactive
	}
}

// WithSkipInstall omits the dependency installation step's pip invocations.
func WithSkipInstall(skip bool) Option {
	return func(r *Runner) {
		r.skipInstall = skip
	}
}

// WithColor toggles ANSI color in status output.
func WithColor(colorize bool) Option {
	return func(r *Runner) {
		r.colorize = colorize
	}
}

// WithVenvRunner overrides how virtualenv/pip commands are executed.
func WithVenvRunner(run venv.Runner) Option {
	return func(r *Runner) {
		r.venvRunner = run
	}
}

// WithSmokeTest supplies the component-test routine offered after setup.
func WithSmokeTest(fn func(ctx context.Context) error) Option {
	return func(r *Runner) {
		r.smokeTest = fn
	}
}

// NewRunner constructs a bootstrap runner.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap requires config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	runner := &Runner{
		cfg:         cfg,
		logger:      logger.With("component", "bootstrap"),
		out:         os.Stdout,
		input:       NewTerminalInput(os.Stdin, os.Stdout),
		interactive: true,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

func (r *Runner) steps() []Step {
	return []Step{
		{Name: "python", Required: true, Run: r.stepPython},
		{Name: "ffmpeg", Required: true, Run: r.stepFFmpeg},
		{Name: "directories", Required: true, Run: r.stepDirectories},
		{Name: "virtualenv", Required: true, Run: r.stepVirtualenv},
		{Name: "dependencies", Required: true, Run: r.stepDependencies},
		{Name: "credential", Run: r.stepCredential},
		{Name: "sample-pdf", Run: r.stepFixture},
		{Name: "self-check", Run: r.stepSelfCheck},
	}
}

// Run executes every step in order, halting on the first fatal outcome from
// a required step. It returns the report in both cases; the error is non-nil
// only for fatal runs (and lock contention) so callers can map it to a
// non-zero exit.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return Report{}, err
	}

	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("acquire setup lock: %w", err)
	}
	if !locked {
		return Report{}, ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("release setup lock", "error", err)
		}
	}()

	store := r.openJournal()
	defer store.close()
	runID := store.begin(ctx)

	var report Report
	fmt.Fprintln(r.out, "easel setup")
	fmt.Fprintln(r.out)

	for i, step := range r.steps() {
		outcome := step.Run(ctx)
		report.Results = append(report.Results, StepResult{Name: step.Name, Outcome: outcome})
		store.record(ctx, runID, i+1, step.Name, outcome)
		r.printOutcome(step.Name, outcome)

		switch outcome.Status {
		case StatusWarn:
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", step.Name, outcome.Detail))
		case StatusFatal:
			if step.Required {
				report.FatalStep = step.Name
				if outcome.Detail != "" {
					fmt.Fprintln(r.out)
					fmt.Fprintln(r.out, outcome.Detail)
				}
				store.finish(ctx, runID, report)
				return report, fmt.Errorf("setup failed at step %q: %w", step.Name, outcome.Err)
			}
			// Optional steps never abort; degrade to a warning.
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", step.Name, outcome.Err))
		}
	}

	r.printSummary(report)
	store.finish(ctx, runID, report)
	r.offerSmokeTest(ctx)
	return report, nil
}

func (r *Runner) printSummary(report Report) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Setup complete.")
	if len(report.Warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Warnings:")
		for _, warning := range report.Warnings {
			fmt.Fprintf(r.out, "  - %s\n", warning)
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Next steps:")
	fmt.Fprintf(r.out, "  1. Activate the environment: source %s/bin/activate\n", r.cfg.Python.VenvDir)
	fmt.Fprintf(r.out, "  2. Convert a document:       python main.py %s\n", r.cfg.Workspace.SamplePDF)
	fmt.Fprintln(r.out, "  3. Check readiness anytime:  easel status")
}

func (r *Runner) offerSmokeTest(ctx context.Context) {
	if !r.interactive || r.smokeTest == nil {
		return
	}
	answer, err := r.input.ReadLine("Would you like to run a component test now? (y/n): ")
	if err != nil {
		r.logger.Warn("read smoke test answer", "error", err)
		return
	}
	if answer != "y" && answer != "Y" {
		return
	}
	if err := r.smokeTest(ctx); err != nil {
		fmt.Fprintf(r.out, "Component test failed: %v\n", err)
	}
}

// journalHandle wraps an optional journal store so step recording can stay
// advisory: every failure degrades to a log line.
type journalHandle struct {
	store  *journal.Store
	logger *slog.Logger
}

func (r *Runner) openJournal() *journalHandle {
	handle := &journalHandle{logger: r.logger}
	if !r.cfg.Journal.Enabled {
		return handle
	}
	store, err := journal.Open(r.cfg.Journal.Path)
	if err != nil {
		r.logger.Warn("open journal", "error", err)
		return handle
	}
	handle.store = store
	return handle
}

func (h *journalHandle) begin(ctx context.Context) string {
	if h.store == nil {
		return ""
	}
	runID, err := h.store.BeginRun(ctx)
	if err != nil {
		h.logger.Warn("begin journal run", "error", err)
		return ""
	}
	return runID
}

func (h *journalHandle) record(ctx context.Context, runID string, position int, name string, outcome Outcome) {
	if h.store == nil || runID == "" {
		return
	}
	detail := outcome.Detail
	if outcome.Err != nil {
		detail = outcome.Err.Error()
	}
	if err := h.store.RecordStep(ctx, runID, position, name, outcome.Status.String(), detail); err != nil {
		h.logger.Warn("record journal step", "step", name, "error", err)
	}
}

func (h *journalHandle) finish(ctx context.Context, runID string, report Report) {
	if h.store == nil || runID == "" {
		return
	}
	if err := h.store.FinishRun(ctx, runID, report.Outcome(), report.FatalStep, len(report.Warnings)); err != nil {
		h.logger.Warn("finish journal run", "error", err)
	}
}

func (h *journalHandle) close() {
	if h.store != nil {
		_ = h.store.Close()
	}
}
