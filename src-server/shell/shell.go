package shell

import (
	"fmt"
	"roam/src-server/catalog"
	"roam/src-server/filter"
	"roam/src-server/mapview"
	"roam/src-server/model"
	"sync"
	"time"
)

// State is an immutable snapshot of everything the user has dialed in.
// Transitions produce a new State; they never mutate in place.
type State struct {
	Criteria   filter.Criteria
	SelectedID string
}

func (s State) WithMonth(month string) State {
	s.Criteria.Month = month
	return s
}

func (s State) WithProgram(program string) State {
	s.Criteria.Program = program
	return s
}

func (s State) WithQuery(query string) State {
	s.Criteria.Query = query
	return s
}

func (s State) WithPast(showPast bool) State {
	s.Criteria.ShowPast = showPast
	return s
}

func (s State) WithSelection(id string) State {
	s.SelectedID = id
	return s
}

func (s State) WithoutSelection() State {
	s.SelectedID = ""
	return s
}

func (s State) Cleared() State {
	return State{}
}

// Shell owns the filter/selection state and is the only writer of it.
// Every transition recomputes the filtered set from the catalog snapshot
// and drives the map sync against the new state, under one lock, so
// reconciliation always sees the latest state in action order.
type Shell struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	sync    *mapview.Sync
	loc     *time.Location
	now     func() time.Time

	// optional filter recompute latency sink
	filterLatency chan float64

	state    State
	filtered []model.Event
}

// New wires the shell to the catalog and binds the map capability. now is
// injected so "today" is explicit and deterministic in tests.
func New(cat *catalog.Catalog, view mapview.Map, loc *time.Location, now func() time.Time, filterLatency chan float64) *Shell {
	sh := &Shell{
		catalog:       cat,
		sync:          mapview.NewSync(),
		loc:           loc,
		now:           now,
		filterLatency: filterLatency,
	}
	sh.sync.Bind(view, func(id string) {
		// marker click and list click converge on the same transition
		_ = sh.Select(id)
	})

	sh.mu.Lock()
	sh.applyLocked(State{}, false)
	sh.mu.Unlock()
	return sh
}

// Today is the current calendar day in the configured timezone.
func (sh *Shell) Today() string {
	return sh.now().In(sh.loc).Format(model.DateLayout)
}

func (sh *Shell) applyLocked(next State, explicitSelect bool) {
	start := time.Now()
	sh.state = next
	sh.filtered = filter.Apply(sh.catalog.Events(), next.Criteria, sh.Today())
	if sh.filterLatency != nil {
		select {
		case sh.filterLatency <- float64(time.Since(start).Microseconds()):
		default:
		}
	}
	sh.sync.Reconcile(sh.filtered, next.SelectedID, explicitSelect)
}

func (sh *Shell) SetMonth(month string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithMonth(month), false)
}

func (sh *Shell) SetProgram(program string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithProgram(program), false)
}

func (sh *Shell) SetQuery(query string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithQuery(query), false)
}

func (sh *Shell) SetShowPast(showPast bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithPast(showPast), false)
}

func (sh *Shell) ClearFilters() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.Cleared(), false)
}

// Select focuses one event; list entries and map markers both end up here.
func (sh *Shell) Select(id string) error {
	if _, ok := sh.catalog.ByID(id); !ok {
		return fmt.Errorf("(*Shell).Select: no event with id %s", id)
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithSelection(id), true)
	return nil
}

func (sh *Shell) ClearSelection() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.applyLocked(sh.state.WithoutSelection(), false)
}

func (sh *Shell) State() State {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.state
}

// Filtered returns a copy of the current filtered set.
func (sh *Shell) Filtered() []model.Event {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	out := make([]model.Event, len(sh.filtered))
	copy(out, sh.filtered)
	return out
}

// Selected resolves the currently focused event, if any.
func (sh *Shell) Selected() (model.Event, bool) {
	sh.mu.Lock()
	id := sh.state.SelectedID
	sh.mu.Unlock()

	if id == "" {
		return model.Event{}, false
	}
	return sh.catalog.ByID(id)
}
