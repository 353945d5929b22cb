package navigator

// State is a milestone of one cascade.
type State int

const (
	Init State = iota
	BasePageLoaded
	InstituteSelected
	SchoolSelected
	GroupSelected
	WeekSelected
	FormSubmitted
	ScheduleVerified
	Saved
	Failed
)

var stateNames = [...]string{
	Init:              "init",
	BasePageLoaded:    "base-page-loaded",
	InstituteSelected: "institute-selected",
	SchoolSelected:    "school-selected",
	GroupSelected:     "group-selected",
	WeekSelected:      "week-selected",
	FormSubmitted:     "form-submitted",
	ScheduleVerified:  "schedule-verified",
	Saved:             "saved",
	Failed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Saved || s == Failed
}
