package mapview

import (
	"fmt"
	"roam/src-server/model"
	"sync"
)

const (
	// zoom applied when the viewport centers on a selected event
	DetailZoom = 16
	// padding fraction applied when fitting bounds over visible markers
	BoundsPadding = 0.1
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Map is the external map capability. AddMarker is place-or-update: calling
// it again for the same id restyles the existing marker.
type Map interface {
	AddMarker(id string, point Point, selected bool, onClick func(id string))
	RemoveMarker(id string)
	SetView(center Point, zoom int)
	FitBounds(points []Point, padding float64)
}

// Sync exclusively owns the marker set and viewport of its bound Map.
// Nothing else mutates map state.
type Sync struct {
	mu sync.Mutex

	view          Map
	onMarkerClick func(id string)

	// event id -> coordinates of every currently rendered marker
	rendered map[string]Point
}

func NewSync() *Sync {
	return &Sync{
		rendered: make(map[string]Point),
	}
}

// Bind attaches the map capability. Binding is idempotent: the first call
// wins, later calls are no-ops.
func (s *Sync) Bind(view Map, onMarkerClick func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != nil {
		return
	}
	s.view = view
	s.onMarkerClick = onMarkerClick
}

// Reconcile projects (filtered set, selection) onto the map. explicitSelect
// reports whether this pass was triggered by the user picking an event (list
// entry or marker click); only those passes recenter on the selection.
// Filter-driven passes leave an existing selection's viewport alone.
func (s *Sync) Reconcile(filtered []model.Event, selectedID string, explicitSelect bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return
	}

	next := make(map[string]Point, len(filtered))
	for _, event := range filtered {
		next[event.ID] = Point{Lat: event.Lat, Lng: event.Lng}
	}

	// drop stale markers first so the map never shows events outside the
	// filtered set
	for id := range s.rendered {
		if _, ok := next[id]; !ok {
			s.view.RemoveMarker(id)
			delete(s.rendered, id)
		}
	}

	// place or restyle the rest
	var selectedPoint *Point
	for _, event := range filtered {
		point := next[event.ID]
		selected := event.ID == selectedID
		s.view.AddMarker(event.ID, point, selected, s.onMarkerClick)
		s.rendered[event.ID] = point
		if selected {
			p := point
			selectedPoint = &p
		}
	}

	switch {
	case selectedID != "":
		if explicitSelect && selectedPoint != nil {
			s.view.SetView(*selectedPoint, DetailZoom)
		}
	case len(filtered) > 0:
		points := make([]Point, 0, len(filtered))
		for _, event := range filtered {
			points = append(points, Point{Lat: event.Lat, Lng: event.Lng})
		}
		s.view.FitBounds(points, BoundsPadding)
	default:
		// empty filtered set: leave the viewport where it is
	}
}

// MarkerCount reports how many markers are currently rendered.
func (s *Sync) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rendered)
}

// Viewport state of a SnapshotMap, shaped for the web client.
type Viewport struct {
	// "unset", "center" or "bounds"
	Mode    string  `json:"mode"`
	Center  Point   `json:"center,omitempty"`
	Zoom    int     `json:"zoom,omitempty"`
	Min     Point   `json:"min,omitempty"`
	Max     Point   `json:"max,omitempty"`
	Padding float64 `json:"padding,omitempty"`
}

type SnapshotMarker struct {
	ID       string `json:"id"`
	Point    Point  `json:"point"`
	Selected bool   `json:"selected"`
}

// Serializable view of the whole map, returned by the map-state route.
type Snapshot struct {
	Markers  []SnapshotMarker `json:"markers"`
	Viewport Viewport         `json:"viewport"`
}

// SnapshotMap implements Map by recording the state a real renderer would
// show; the web client polls it and mirrors it onto the actual map library.
type SnapshotMap struct {
	mu sync.Mutex

	markers  map[string]SnapshotMarker
	order    []string
	onClicks map[string]func(id string)
	viewport Viewport
}

func NewSnapshotMap() *SnapshotMap {
	return &SnapshotMap{
		markers:  make(map[string]SnapshotMarker),
		onClicks: make(map[string]func(id string)),
		viewport: Viewport{Mode: "unset"},
	}
}

func (m *SnapshotMap) AddMarker(id string, point Point, selected bool, onClick func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.markers[id]; !ok {
		m.order = append(m.order, id)
	}
	m.markers[id] = SnapshotMarker{ID: id, Point: point, Selected: selected}
	m.onClicks[id] = onClick
}

func (m *SnapshotMap) RemoveMarker(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.markers, id)
	delete(m.onClicks, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *SnapshotMap) SetView(center Point, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viewport = Viewport{Mode: "center", Center: center, Zoom: zoom}
}

func (m *SnapshotMap) FitBounds(points []Point, padding float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(points) == 0 {
		return
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		if p.Lat < min.Lat {
			min.Lat = p.Lat
		}
		if p.Lng < min.Lng {
			min.Lng = p.Lng
		}
		if p.Lat > max.Lat {
			max.Lat = p.Lat
		}
		if p.Lng > max.Lng {
			max.Lng = p.Lng
		}
	}
	m.viewport = Viewport{Mode: "bounds", Min: min, Max: max, Padding: padding}
}

// Click dispatches a marker click the way the real map library would.
func (m *SnapshotMap) Click(id string) error {
	m.mu.Lock()
	onClick, ok := m.onClicks[id]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("(*SnapshotMap).Click: no marker with id %s", id)
	}
	if onClick != nil {
		onClick(id)
	}
	return nil
}

func (m *SnapshotMap) State() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	markers := make([]SnapshotMarker, 0, len(m.order))
	for _, id := range m.order {
		if marker, ok := m.markers[id]; ok {
			markers = append(markers, marker)
		}
	}
	return Snapshot{Markers: markers, Viewport: m.viewport}
}
