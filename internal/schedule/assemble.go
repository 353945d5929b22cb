package schedule

import "sync"

// Assembler collects extracted group schedules from concurrent workers into
// one Store. The result replaces any previous store wholesale; there is no
// merge with what is on disk.
type Assembler struct {
	mu    sync.Mutex
	store Store
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{store: Store{}}
}

// Add records the schedule of group, replacing an earlier one.
func (a *Assembler) Add(group string, gs GroupSchedule) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store[group] = gs
}

// Store returns the assembled store.
func (a *Assembler) Store() Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(Store, len(a.store))
	for k, v := range a.store {
		out[k] = v
	}
	return out
}
