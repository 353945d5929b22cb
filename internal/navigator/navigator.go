// Package navigator walks catalog targets through the institute, school,
// group and week dropdowns of the schedule form and saves each rendered
// schedule page.
package navigator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"timetable/internal/artifact"
	"timetable/internal/catalog"
	"timetable/internal/diag"
)

// Options configures a Navigator.
type Options struct {
	BaseURL     string
	ArtifactDir string
	// WeekAlt is the second encoding of the week option, tried once when the
	// target's week value is not offered.
	WeekAlt string

	LoadTimeout    time.Duration
	SubmitTimeout  time.Duration
	SettleDelay    time.Duration
	BetweenTargets time.Duration

	Sink *diag.Sink
	// Sleep replaces time.Sleep; tests set it to a no-op.
	Sleep func(time.Duration)
}

// Navigator runs cascades one at a time over a single Driver.
type Navigator struct {
	driver Driver
	opts   Options
	log    *slog.Logger
}

// New creates a Navigator. The driver is owned by the Navigator for the
// duration of Run and must not be shared.
func New(driver Driver, opts Options) *Navigator {
	if opts.Sink == nil {
		opts.Sink = diag.Discard(".")
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Navigator{
		driver: driver,
		opts:   opts,
		log:    opts.Sink.Logger,
	}
}

// Result is the outcome of a saved cascade.
type Result struct {
	Target catalog.Target
	Path   string
	Size   int64
}

// Skip records a target that did not produce an artifact.
type Skip struct {
	Target catalog.Target
	Err    error
}

// Report summarizes a batch.
type Report struct {
	Saved   []Result
	Skipped []Skip
}

// Run executes one cascade per target, strictly in order. A failing target
// is logged and skipped; it never stops the batch. Each target is first
// resolved against cat so stale or hand-written targets are skipped with a
// *catalog.LookupError. ctx is only consulted between targets.
func (n *Navigator) Run(ctx context.Context, cat catalog.Catalog, targets []catalog.Target) (*Report, error) {
	report := &Report{}
	n.log.Info("starting navigation", "targets", len(targets), "base_url", n.opts.BaseURL)

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			n.log.Warn("navigation interrupted", "done", i, "remaining", len(targets)-i, "err", err)
			return report, err
		}

		resolved, err := cat.Lookup(target.InstituteID, target.SchoolID, target.GroupID)
		if err != nil {
			n.log.Error("target not in catalog, skipping", append(target.LogAttrs(), "err", err)...)
			report.Skipped = append(report.Skipped, Skip{Target: target, Err: err})
			continue
		}
		resolved.Week = target.Week

		res, err := n.RunCascade(resolved)
		if err != nil {
			report.Skipped = append(report.Skipped, Skip{Target: resolved, Err: err})
		} else {
			report.Saved = append(report.Saved, res)
		}

		if i < len(targets)-1 {
			n.opts.Sleep(n.opts.BetweenTargets)
		}
	}

	n.log.Info("navigation finished", "saved", len(report.Saved), "skipped", len(report.Skipped))
	return report, nil
}

// RunCascade drives one target from Init to Saved. Any step failure ends the
// cascade in Failed and is returned as a *CascadeError.
func (n *Navigator) RunCascade(target catalog.Target) (Result, error) {
	c := &cascade{
		nav:    n,
		target: target,
		state:  Init,
		log:    n.log.With(target.LogAttrs()...),
	}
	c.log.Info("processing group", "week", target.Week)

	for !c.state.Terminal() {
		step, ok := transitions[c.state]
		if !ok {
			break
		}
		next, err := step(c)
		if err != nil {
			c.log.Error("cascade failed, skipping group", "state", c.state, "err", err)
			failed := &CascadeError{Target: target, State: c.state, Err: err}
			c.state = Failed
			return Result{}, failed
		}
		c.log.Debug("transition", "from", c.state, "to", next)
		c.state = next
	}

	return Result{Target: target, Path: c.path, Size: c.size}, nil
}

type step func(c *cascade) (State, error)

var transitions = map[State]step{
	Init:              (*cascade).loadBase,
	BasePageLoaded:    (*cascade).selectInstitute,
	InstituteSelected: (*cascade).selectSchool,
	SchoolSelected:    (*cascade).selectGroup,
	GroupSelected:     (*cascade).selectWeek,
	WeekSelected:      (*cascade).submit,
	FormSubmitted:     (*cascade).verify,
	ScheduleVerified:  (*cascade).persist,
}

type cascade struct {
	nav    *Navigator
	target catalog.Target
	state  State
	log    *slog.Logger

	path string
	size int64
}

func (c *cascade) driver() Driver { return c.nav.driver }

// loadBase re-opens the entry page so nothing selected by the previous
// target survives.
func (c *cascade) loadBase() (State, error) {
	opts := c.nav.opts
	c.log.Info("navigating to base URL", "url", opts.BaseURL)

	if err := c.driver().Open(opts.BaseURL, opts.LoadTimeout); err != nil {
		c.screenshot("base_page_error")
		return Failed, &PageLoadTimeoutError{Stage: "base load", Marker: FormRoot, Err: err}
	}

	ok, err := c.driver().Exists(FormRoot)
	if err != nil || !ok {
		c.screenshot("base_page_error")
		return Failed, &PageLoadTimeoutError{Stage: "base load", Marker: FormRoot, Err: err}
	}
	return BasePageLoaded, nil
}

func (c *cascade) selectInstitute() (State, error) {
	return InstituteSelected, c.selectOption(InstituteSelect, c.target.InstituteID)
}

func (c *cascade) selectSchool() (State, error) {
	return SchoolSelected, c.selectOption(SchoolSelect, c.target.SchoolID)
}

func (c *cascade) selectGroup() (State, error) {
	return GroupSelected, c.selectOption(GroupSelect, c.target.GroupID)
}

// selectWeek is the only step with a fallback: the week widget encodes the
// same week either as "N неделя" or as plain "N".
func (c *cascade) selectWeek() (State, error) {
	err := c.selectOption(WeekSelect, c.target.Week)
	var notFound *OptionNotFoundError
	alt := c.nav.opts.WeekAlt
	if errors.As(err, &notFound) && alt != "" && alt != c.target.Week {
		c.log.Warn("week option missing, trying alternate value", "week", c.target.Week, "alt", alt)
		err = c.selectOption(WeekSelect, alt)
	}
	return WeekSelected, err
}

// selectOption checks the value is offered before touching the select, then
// fires the change event and waits for dependents to repopulate.
func (c *cascade) selectOption(id, value string) error {
	c.log.Debug("selecting option", "select", id, "value", value)

	ok, err := c.driver().HasOption(id, value)
	if err != nil {
		return &OptionNotFoundError{Select: id, Value: value, Err: err}
	}
	if !ok {
		return &OptionNotFoundError{Select: id, Value: value}
	}
	if err := c.driver().Select(id, value); err != nil {
		return &OptionNotFoundError{Select: id, Value: value, Err: err}
	}

	c.nav.opts.Sleep(c.nav.opts.SettleDelay)
	c.log.Info("selected option", "select", id, "value", value)
	return nil
}

func (c *cascade) submit() (State, error) {
	d := c.driver()

	if values, err := d.Values(InstituteSelect, SchoolSelect, GroupSelect, WeekSelect); err == nil {
		c.log.Info("selected values before submit",
			"institute", values[InstituteSelect],
			"school", values[SchoolSelect],
			"group", values[GroupSelect],
			"week", values[WeekSelect])
	}

	if ok, err := d.Exists(FormRoot); err != nil || !ok {
		return Failed, &SubmissionVerificationError{Reason: "form " + FormRoot + " not found", Err: err}
	}
	if ok, err := d.Exists(SubmitButton); err != nil || !ok {
		return Failed, &SubmissionVerificationError{Reason: "submit button not found", Err: err}
	}

	if err := d.Click(SubmitButton); err != nil {
		return Failed, &SubmissionVerificationError{Reason: "click failed", Err: err}
	}
	c.log.Info("clicked the submit button")

	// The result page can keep the entry URL, so only the marker counts.
	if err := d.WaitFor(SubjectMarker, c.nav.opts.SubmitTimeout); err != nil {
		return Failed, &SubmissionVerificationError{Reason: "schedule marker " + SubjectMarker + " did not appear", Err: err}
	}
	return FormSubmitted, nil
}

func (c *cascade) verify() (State, error) {
	d := c.driver()
	c.nav.opts.Sleep(c.nav.opts.SettleDelay)

	slots, err := d.Count(TimeSlot)
	if err != nil || slots == 0 {
		c.screenshot("error")
		return Failed, &PageLoadTimeoutError{Stage: "verify", Marker: TimeSlot, Err: err}
	}

	lessons, _ := d.Count(LessonCell)
	first, _ := d.Text(SubjectMarker)
	if first == "" {
		first = "None"
	}
	c.log.Info("schedule loaded", "time_slots", slots, "lessons", lessons, "first_subject", first)
	return ScheduleVerified, nil
}

// persist saves the whole document rather than the table, since later
// re-extraction may need context outside it.
func (c *cascade) persist() (State, error) {
	dir := c.nav.opts.ArtifactDir

	markup, err := c.driver().HTML()
	if err != nil {
		return Failed, c.persistErr(artifact.Path(dir, c.target.GroupName), err)
	}

	path, size, err := artifact.Write(dir, c.target.GroupName, markup)
	if err != nil {
		return Failed, c.persistErr(path, err)
	}

	c.path, c.size = path, size
	c.log.Info("saved schedule HTML", "path", path, "bytes", size)
	return Saved, nil
}

func (c *cascade) persistErr(path string, err error) error {
	wd, _ := os.Getwd()
	return &PersistenceError{Path: path, WorkDir: wd, Err: err}
}

func (c *cascade) screenshot(context string) {
	sink := c.nav.opts.Sink
	if err := sink.EnsureScreenshotDir(); err != nil {
		c.log.Warn("cannot create screenshot directory", "err", err)
		return
	}
	path := sink.ScreenshotPath(context, c.target.GroupName)
	if err := c.driver().Screenshot(path); err != nil {
		c.log.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	c.log.Info("saved failure screenshot", "path", path)
}
