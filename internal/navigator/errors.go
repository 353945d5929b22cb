package navigator

import (
	"fmt"

	"timetable/internal/catalog"
)

// OptionNotFoundError means a dropdown did not offer the value to select,
// usually because its parent selection has not settled.
type OptionNotFoundError struct {
	Select string
	Value  string
	Err    error
}

func (e *OptionNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("option %q not found in #%s: %v", e.Value, e.Select, e.Err)
	}
	return fmt.Sprintf("option %q not found in #%s", e.Value, e.Select)
}

func (e *OptionNotFoundError) Unwrap() error { return e.Err }

// PageLoadTimeoutError means a page never reached the expected marker within
// its bound: the base form never appeared, or the schedule rendered no slots.
type PageLoadTimeoutError struct {
	Stage  string
	Marker string
	Err    error
}

func (e *PageLoadTimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: marker %s not found: %v", e.Stage, e.Marker, e.Err)
	}
	return fmt.Sprintf("%s: marker %s not found", e.Stage, e.Marker)
}

func (e *PageLoadTimeoutError) Unwrap() error { return e.Err }

// SubmissionVerificationError means the form could not be submitted or the
// schedule marker did not appear after submitting.
type SubmissionVerificationError struct {
	Reason string
	Err    error
}

func (e *SubmissionVerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit: %s: %v", e.Reason, e.Err)
	}
	return "submit: " + e.Reason
}

func (e *SubmissionVerificationError) Unwrap() error { return e.Err }

// PersistenceError means the captured markup could not be written or did not
// survive the write.
type PersistenceError struct {
	Path    string
	WorkDir string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (cwd %s): %v", e.Path, e.WorkDir, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CascadeError ties a step failure to the target and the state it was
// raised from.
type CascadeError struct {
	Target catalog.Target
	State  State
	Err    error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("group %s (%s/%s/%s) failed after %s: %v",
		e.Target.GroupName, e.Target.InstituteID, e.Target.SchoolID, e.Target.GroupID, e.State, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
