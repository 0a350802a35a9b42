package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/doubtspanel/internal/domain/models"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// fetch is issued.
const DefaultDebounce = 300 * time.Millisecond

// DoubtLister fetches the full doubt collection.
type DoubtLister interface {
	ListAll(ctx context.Context) ([]models.Doubt, error)
}

// Item is one dropdown entry.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// State is a snapshot of the dropdown.
type State struct {
	Seq     uint64 `json:"seq"`
	Query   string `json:"query"`
	Open    bool   `json:"open"`
	Results []Item `json:"results"`
}

// Result is what a single keystroke produced. Stale is true when a newer
// keystroke superseded this one, in which case State is the current
// dropdown and was not changed by this call.
type Result struct {
	State
	Stale bool `json:"-"`
}

// Dropdown is the search state of one session. It is safe for
// concurrent use.
type Dropdown struct {
	lister DoubtLister
	wait   time.Duration

	mu      sync.Mutex
	issued  uint64
	applied uint64
	pending chan struct{} // closed when the waiting keystroke is superseded
	state   State
}

// NewDropdown returns an empty, closed dropdown.
func NewDropdown(lister DoubtLister, wait time.Duration) *Dropdown {
	return &Dropdown{lister: lister, wait: wait, state: State{Results: []Item{}}}
}

// Type records a keystroke producing query.
//
// A blank query clears and closes the dropdown at once. Otherwise Type
// waits out the debounce; a newer keystroke during the wait ends this one
// as stale without fetching. After the wait the full collection is
// fetched and filtered, and the result is applied only if no newer
// keystroke has been issued meanwhile.
func (d *Dropdown) Type(ctx context.Context, query string) (Result, error) {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	if d.pending != nil {
		close(d.pending)
		d.pending = nil
	}

	if strings.TrimSpace(query) == "" {
		d.applied = seq
		d.state = State{Seq: seq, Query: query, Open: false, Results: []Item{}}
		st := d.state
		d.mu.Unlock()
		return Result{State: st}, nil
	}

	superseded := make(chan struct{})
	d.pending = superseded
	d.mu.Unlock()

	timer := time.NewTimer(d.wait)
	select {
	case <-timer.C:
	case <-superseded:
		timer.Stop()
		return d.stale(), nil
	case <-ctx.Done():
		timer.Stop()
		d.mu.Lock()
		if d.pending == superseded {
			d.pending = nil
		}
		d.mu.Unlock()
		return Result{}, ctx.Err()
	}

	d.mu.Lock()
	if d.pending == superseded {
		d.pending = nil
	}
	d.mu.Unlock()

	// The fetch is not cancelled by newer keystrokes; its result is
	// simply discarded below if it lost the race.
	doubts, err := d.lister.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}
	matches := Filter(doubts, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.issued || seq <= d.applied {
		return Result{State: d.snapshot(), Stale: true}, nil
	}

	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		items = append(items, Item{ID: m.ID.Hex(), Title: m.Title})
	}
	d.applied = seq
	d.state = State{Seq: seq, Query: query, Open: len(items) > 0, Results: items}
	return Result{State: d.snapshot()}, nil
}

// Select clears the query and closes the dropdown after the user picks
// an entry. Any keystroke still in flight becomes stale.
func (d *Dropdown) Select() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.issued++
	if d.pending != nil {
		close(d.pending)
		d.pending = nil
	}
	d.applied = d.issued
	d.state = State{Seq: d.issued, Results: []Item{}}
	return d.snapshot()
}

// Snapshot returns the current dropdown state.
func (d *Dropdown) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Dropdown) stale() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Result{State: d.snapshot(), Stale: true}
}

// snapshot copies state; d.mu must be held.
func (d *Dropdown) snapshot() State {
	st := d.state
	st.Results = append([]Item(nil), d.state.Results...)
	if st.Results == nil {
		st.Results = []Item{}
	}
	return st
}

// close releases a waiting keystroke, used when the session goes away.
func (d *Dropdown) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issued++
	if d.pending != nil {
		close(d.pending)
		d.pending = nil
	}
}
