package catalog_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"roam/src-server/catalog"
	"roam/src-server/model"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// a single connection keeps the in-memory database alive across queries
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSeedAndLoad(t *testing.T) {
	bundb := newTestDB(t)
	path := writeSeedFile(t, `[
		{"id": "ev-1", "title": "Workshop A", "date": "2024-01-05", "lat": 33.77, "lng": -118.19, "city": "long beach", "program": "Education"},
		{"id": "ev-2", "title": "Fair B", "date": "2024-03-10", "lat": 33.83, "lng": -118.34, "city": "Torrance", "program": "Health"}
	]`)

	n, err := catalog.Seed(context.Background(), bundb, path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Error("expected 2 seeded events, got", n)
	}

	cat, err := catalog.Load(context.Background(), bundb)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 2 {
		t.Error("expected 2 events in snapshot, got", cat.Len())
	}

	// seed order preserved
	events := cat.Events()
	if events[0].ID != "ev-1" || events[1].ID != "ev-2" {
		t.Error("snapshot not in seed order:", events[0].ID, events[1].ID)
	}

	// city label normalized
	if events[0].City != "Long Beach" {
		t.Error("expected normalized city Long Beach, got", events[0].City)
	}

	// lookup by id
	event, ok := cat.ByID("ev-2")
	if !ok || event.Title != "Fair B" {
		t.Error("ByID lookup failed")
	}
	if _, ok := cat.ByID("nope"); ok {
		t.Error("ByID should miss on unknown id")
	}
}

func TestSeedRejectsDuplicateIDs(t *testing.T) {
	bundb := newTestDB(t)
	path := writeSeedFile(t, `[
		{"id": "ev-1", "title": "One", "date": "2024-01-05", "lat": 0, "lng": 0},
		{"id": "ev-1", "title": "Two", "date": "2024-01-06", "lat": 0, "lng": 0}
	]`)

	if _, err := catalog.Seed(context.Background(), bundb, path); err == nil {
		t.Error("expected duplicate id to be rejected")
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	bundb := newTestDB(t)

	cat, err := catalog.Load(context.Background(), bundb)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 0 {
		t.Error("expected empty snapshot")
	}
	if events := cat.Events(); len(events) != 0 {
		t.Error("expected empty slice, not nil panic or rows")
	}
}
