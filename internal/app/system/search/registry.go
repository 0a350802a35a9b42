package search

import (
	"sync"
	"time"
)

// Registry keeps one Dropdown per browser session.
type Registry struct {
	lister DoubtLister
	wait   time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	dd       *Dropdown
	lastUsed time.Time
}

// NewRegistry returns an empty registry whose dropdowns debounce by wait.
func NewRegistry(lister DoubtLister, wait time.Duration) *Registry {
	return &Registry{
		lister:  lister,
		wait:    wait,
		entries: map[string]*entry{},
		now:     time.Now,
	}
}

// Get returns the dropdown for sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Dropdown {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		e = &entry{dd: NewDropdown(r.lister, r.wait)}
		r.entries[sessionID] = e
	}
	e.lastUsed = r.now()
	return e.dd
}

// Drop discards the dropdown for sessionID, releasing any waiting keystroke.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()

	if ok {
		e.dd.close()
	}
}

// Len reports how many sessions hold a dropdown.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Prune drops dropdowns unused for longer than idle and returns how many
// were removed.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var gone []*entry
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			gone = append(gone, e)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, e := range gone {
		e.dd.close()
	}
	return len(gone)
}
