package route_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"roam/src-server/catalog"
	"roam/src-server/locale"
	"roam/src-server/mapview"
	"roam/src-server/model"
	"roam/src-server/route"
	"roam/src-server/rsvp"
	"roam/src-server/share"
	"roam/src-server/shell"
	"testing"
	"time"
)

var routeCatalog = []model.Event{
	{ID: "workshop-a", Title: "Workshop A", Date: "2024-01-05", DateDisplay: "January 5, 2024", City: "Long Beach", Address: "123 Ocean Blvd", Lat: 33.77, Lng: -118.19, Program: "Education"},
	{ID: "fair-b", Title: "Fair B", Date: "2024-03-10", DateDisplay: "March 10, 2024", City: "Torrance", Address: "456 Carson St", Lat: 33.83, Lng: -118.34, Program: "Health"},
	{ID: "soon-c", Title: "Soon C", Date: "2024-04-01", City: "Carson", Lat: 33.8, Lng: -118.2, ComingSoon: true},
}

func testLocales(t *testing.T) *locale.Store {
	t.Helper()

	dir := t.TempDir()
	body := `
events_shown_format: "%d events shown"
empty_state: "No events match your filters"
rsvp_success: "See you there!"
rsvp_error: "Something went wrong, please try again"
share_copied: "Link copied"
share_text_format: "Join me at %s: %s"
`
	if err := os.WriteFile(filepath.Join(dir, "en.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := locale.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

type fakeClipboard struct{ copied string }

func (f *fakeClipboard) Copy(text string) error {
	f.copied = text
	return nil
}

// newTestServer wires the whole HTTP surface against an in-memory catalog
// and a stub intake endpoint.
func newTestServer(t *testing.T) (*httptest.Server, *mapview.SnapshotMap, *fakeClipboard) {
	t.Helper()

	intake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(intake.Close)

	now := func() time.Time {
		return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	view := mapview.NewSnapshotMap()
	clipboard := &fakeClipboard{}
	app := &route.App{
		Location: time.UTC,
		Catalog:  catalog.FromEvents(routeCatalog),
		Locales:  testLocales(t),
		MapView:  view,
		Sender:   rsvp.NewIntakeSender(intake.URL, nil),
		Share:    &share.Service{Clipboard: clipboard},
	}
	app.Shell = shell.New(app.Catalog, view, time.UTC, now, nil)
	t.Cleanup(app.CloseFlows)

	muxer := http.NewServeMux()
	route.Events(muxer, app)
	route.State(muxer, app)
	route.MapState(muxer, app)
	route.Rsvp(muxer, app)

	server := httptest.NewServer(muxer)
	t.Cleanup(server.Close)
	return server, view, clipboard
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatal("unexpected status", resp.StatusCode, "for", url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type listResp struct {
	Events []struct {
		ID       string `json:"id"`
		Selected bool   `json:"selected"`
	} `json:"events"`
	CountLabel string `json:"countLabel"`
	EmptyState string `json:"emptyState"`
}

func TestEventsListAndFilters(t *testing.T) {
	server, _, _ := newTestServer(t)

	// default: upcoming only, workshop-a (past) filtered out
	var list listResp
	getJSON(t, server.URL+"/api/events", &list)
	if len(list.Events) != 2 {
		t.Fatal("expected 2 upcoming events, got", len(list.Events))
	}
	if list.CountLabel != "2 events shown" {
		t.Error("localized count wrong:", list.CountLabel)
	}

	// narrow to month 01 under the upcoming bucket: empty plus message
	resp := postJSON(t, server.URL+"/api/state/filters", map[string]any{"month": "01"})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("filter transition failed", resp.StatusCode)
	}
	getJSON(t, server.URL+"/api/events", &list)
	if len(list.Events) != 0 {
		t.Error("month 01 upcoming should be empty")
	}
	if list.EmptyState != "No events match your filters" {
		t.Error("empty state message missing, got", list.EmptyState)
	}

	resp = postJSON(t, server.URL+"/api/state/clear-filters", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("clear filters failed")
	}
	getJSON(t, server.URL+"/api/events", &list)
	if len(list.Events) != 2 {
		t.Error("cleared filters should restore the upcoming bucket")
	}
}

func TestSelectionAndMapState(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/state/select", map[string]any{"id": "fair-b"})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("select failed", resp.StatusCode)
	}

	var list listResp
	getJSON(t, server.URL+"/api/events", &list)
	found := false
	for _, event := range list.Events {
		if event.ID == "fair-b" && event.Selected {
			found = true
		}
	}
	if !found {
		t.Error("selected event not flagged in list")
	}

	var snapshot mapview.Snapshot
	getJSON(t, server.URL+"/api/map/state", &snapshot)
	if snapshot.Viewport.Mode != "center" || snapshot.Viewport.Zoom != mapview.DetailZoom {
		t.Error("selection should center the viewport:", snapshot.Viewport)
	}

	// marker click on another event converges through the same path
	resp = postJSON(t, server.URL+"/api/map/marker-click", map[string]any{"id": "soon-c"})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("marker click failed", resp.StatusCode)
	}
	getJSON(t, server.URL+"/api/map/state", &snapshot)
	if snapshot.Viewport.Center.Lat != 33.8 {
		t.Error("marker click should recenter on soon-c")
	}

	resp = postJSON(t, server.URL+"/api/state/select", map[string]any{"id": "nope"})
	if resp.StatusCode != http.StatusNotFound {
		t.Error("unknown id should 404, got", resp.StatusCode)
	}
}

func TestEventDetailLinks(t *testing.T) {
	server, _, _ := newTestServer(t)

	var detail struct {
		ID       string `json:"id"`
		Calendar struct {
			Google  string `json:"google"`
			Outlook string `json:"outlook"`
			ICS     string `json:"ics"`
		} `json:"calendar"`
		Link      string `json:"link"`
		ShareText string `json:"shareText"`
	}
	getJSON(t, server.URL+"/api/events/fair-b", &detail)

	if detail.Calendar.Google == "" || detail.Calendar.Outlook == "" || detail.Calendar.ICS == "" {
		t.Error("all three calendar variants must be present")
	}
	if detail.ShareText != "Join me at Fair B: "+detail.Link {
		t.Error("share text wrong:", detail.ShareText)
	}

	resp, err := http.Get(server.URL + "/api/events/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Error("unknown event should 404")
	}
}

func TestRsvpFlowOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)

	// toggle a need on, then off, then on again
	for _, wantLen := range []int{1, 0, 1} {
		resp := postJSON(t, server.URL+"/api/rsvp/fair-b/needs", map[string]any{"tag": "screening"})
		if resp.StatusCode != http.StatusOK {
			t.Fatal("toggle failed", resp.StatusCode)
		}
		var flowState struct {
			Needs []string `json:"needs"`
		}
		getJSON(t, server.URL+"/api/rsvp/fair-b", &flowState)
		if len(flowState.Needs) != wantLen {
			t.Fatal("needs toggle wrong, want", wantLen, "got", flowState.Needs)
		}
	}

	// missing email for an advance RSVP blocks submission
	resp := postJSON(t, server.URL+"/api/rsvp/fair-b/submit", map[string]any{
		"name": "Jane", "phone": "555-1234",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Error("expected validation failure, got", resp.StatusCode)
	}

	// complete form goes through
	resp = postJSON(t, server.URL+"/api/rsvp/fair-b/submit", map[string]any{
		"name": "Jane", "phone": "555-1234", "email": "jane@example.com", "language": "en",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("submit failed", resp.StatusCode)
	}
	var submitted struct {
		Status  rsvp.Status `json:"status"`
		Message string      `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatal(err)
	}
	if submitted.Status != rsvp.StatusSuccess {
		t.Error("expected success, got", submitted.Status)
	}
	if submitted.Message != "See you there!" {
		t.Error("localized success message missing, got", submitted.Message)
	}

	// coming-soon events are closed for RSVP
	resp = postJSON(t, server.URL+"/api/rsvp/soon-c/submit", map[string]any{
		"name": "Jane", "phone": "555-1234", "email": "jane@example.com",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Error("coming-soon event must reject RSVP, got", resp.StatusCode)
	}
}

func TestShareFallsBackToClipboard(t *testing.T) {
	server, _, clipboard := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/events/fair-b/share", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("share failed", resp.StatusCode)
	}
	var shared struct {
		Copied  bool   `json:"copied"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&shared); err != nil {
		t.Fatal(err)
	}
	if !shared.Copied || shared.Message != "Link copied" {
		t.Error("expected clipboard fallback with notice:", shared)
	}
	if clipboard.copied == "" {
		t.Error("clipboard should hold the composed share text")
	}
}
