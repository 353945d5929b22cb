package catalog

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/titanous/json5"
)

// Catalog maps institute id to institute. It is loaded once and never
// modified during a run.
type Catalog map[string]Institute

// Institute is the top level of the dropdown cascade.
type Institute struct {
	Name    string            `json:"institute_name"`
	Schools map[string]School `json:"school"`
}

// School groups study groups under an institute.
type School struct {
	Name   string            `json:"school_name"`
	Groups map[string]string `json:"groups"`
}

// Target identifies one leaf of the catalog plus the week to request.
type Target struct {
	InstituteID   string
	InstituteName string
	SchoolID      string
	SchoolName    string
	GroupID       string
	GroupName     string
	Week          string
}

// LogAttrs returns the target identity as key/value pairs for slog.
func (t Target) LogAttrs() []any {
	return []any{
		"institute_id", t.InstituteID,
		"institute", t.InstituteName,
		"school_id", t.SchoolID,
		"school", t.SchoolName,
		"group_id", t.GroupID,
		"group", t.GroupName,
	}
}

// LookupError reports an institute, school or group id that the catalog
// cannot resolve.
type LookupError struct {
	Kind string // institute, school or group
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("catalog: unknown %s id %q", e.Kind, e.ID)
}

// Load reads a catalog document. Plain JSON and JSON5 are both accepted.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := json5.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Filter narrows enumeration to a subtree. Empty fields match everything.
type Filter struct {
	InstituteID string
	SchoolID    string
	GroupID     string
}

// Targets enumerates every institute x school x group leaf that matches f,
// in stable id order, each tagged with week. A filter id that does not exist
// at its level is a *LookupError.
func (c Catalog) Targets(week string, f Filter) ([]Target, error) {
	if f.InstituteID != "" {
		if _, ok := c[f.InstituteID]; !ok {
			return nil, &LookupError{Kind: "institute", ID: f.InstituteID}
		}
	}

	var targets []Target
	schoolSeen, groupSeen := f.SchoolID == "", f.GroupID == ""

	for _, instID := range sortedKeys(c) {
		if f.InstituteID != "" && instID != f.InstituteID {
			continue
		}
		inst := c[instID]
		for _, schoolID := range sortedKeys(inst.Schools) {
			if f.SchoolID != "" && schoolID != f.SchoolID {
				continue
			}
			schoolSeen = true
			school := inst.Schools[schoolID]
			for _, groupID := range sortedKeys(school.Groups) {
				if f.GroupID != "" && groupID != f.GroupID {
					continue
				}
				groupSeen = true
				targets = append(targets, Target{
					InstituteID:   instID,
					InstituteName: inst.Name,
					SchoolID:      schoolID,
					SchoolName:    school.Name,
					GroupID:       groupID,
					GroupName:     school.Groups[groupID],
					Week:          week,
				})
			}
		}
	}

	if !schoolSeen {
		return nil, &LookupError{Kind: "school", ID: f.SchoolID}
	}
	if !groupSeen {
		return nil, &LookupError{Kind: "group", ID: f.GroupID}
	}
	return targets, nil
}

// Lookup resolves a single fully-qualified leaf.
func (c Catalog) Lookup(instituteID, schoolID, groupID string) (Target, error) {
	inst, ok := c[instituteID]
	if !ok {
		return Target{}, &LookupError{Kind: "institute", ID: instituteID}
	}
	school, ok := inst.Schools[schoolID]
	if !ok {
		return Target{}, &LookupError{Kind: "school", ID: schoolID}
	}
	name, ok := school.Groups[groupID]
	if !ok {
		return Target{}, &LookupError{Kind: "group", ID: groupID}
	}
	return Target{
		InstituteID:   instituteID,
		InstituteName: inst.Name,
		SchoolID:      schoolID,
		SchoolName:    school.Name,
		GroupID:       groupID,
		GroupName:     name,
	}, nil
}

// GroupNames returns every group name in the catalog.
func (c Catalog) GroupNames() []string {
	var names []string
	for _, inst := range c {
		for _, school := range inst.Schools {
			for _, name := range school.Groups {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// sortedKeys orders numeric ids numerically and everything else after them
// lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
