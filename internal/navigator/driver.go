package navigator

import "time"

// Markers of the schedule form page.
const (
	FormRoot      = "#schedule-form"
	SubmitButton  = ".schedule-form__btn.submit_btn"
	SubjectMarker = ".sch_subject"
	TimeSlot      = ".time-style"
	LessonCell    = ".lesson-style"

	InstituteSelect = "schedule-institute"
	SchoolSelect    = "schedule-school"
	GroupSelect     = "schedule-group"
	WeekSelect      = "schedule-week"
)

// Driver is the single page session a cascade runs against. The rod-backed
// implementation drives a real browser; tests substitute a scripted fake.
type Driver interface {
	// Open navigates to url and waits, up to timeout, for the network to go
	// quiet.
	Open(url string, timeout time.Duration) error
	// Exists reports whether selector currently matches anything.
	Exists(selector string) (bool, error)
	// WaitFor blocks until selector matches or timeout expires.
	WaitFor(selector string, timeout time.Duration) error
	// Count returns how many elements match selector right now.
	Count(selector string) (int, error)
	// Text returns the text of the first match, or "" if none.
	Text(selector string) (string, error)

	// HasOption reports whether the select with id offers value.
	HasOption(id, value string) (bool, error)
	// Select sets the value of the select with id and fires its native
	// change event.
	Select(id, value string) error
	// Values reads the current value of each select id.
	Values(ids ...string) (map[string]string, error)
	// Click clicks the first match of selector.
	Click(selector string) error

	// HTML returns the whole rendered document.
	HTML() (string, error)
	// Screenshot writes a PNG of the page to path.
	Screenshot(path string) error
}
