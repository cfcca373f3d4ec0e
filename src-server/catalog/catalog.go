package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"roam/src-server/model"
	"roam/src-server/utils"

	"github.com/uptrace/bun"
)

// One record of the seed file. The catalog is supplied whole at startup;
// nothing mutates it afterwards.
type seedRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	DateDisplay string  `json:"dateDisplay"`
	Time        string  `json:"time"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Program     string  `json:"program"`
	ComingSoon  bool    `json:"comingSoon"`
}

// Read the seed file and upsert every record into the database, preserving
// file order in Event.Seq. Returns the number of seeded events.
func Seed(ctx context.Context, db *bun.DB, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("catalog.Seed: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("catalog.Seed: can't parse seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if _, ok := seen[record.ID]; ok {
			return 0, fmt.Errorf("catalog.Seed: duplicate event id %s", record.ID)
		}
		seen[record.ID] = struct{}{}

		eventModel := model.Event{
			ID:          record.ID,
			Title:       record.Title,
			Description: record.Description,
			Date:        record.Date,
			DateDisplay: record.DateDisplay,
			Time:        record.Time,
			Lat:         record.Lat,
			Lng:         record.Lng,
			Address:     record.Address,
			City:        utils.CleanupString(record.City),
			Program:     utils.CleanupString(record.Program),
			ComingSoon:  record.ComingSoon,
			Seq:         i,
		}
		if err := eventModel.Upsert(ctx, db); err != nil {
			return 0, fmt.Errorf("catalog.Seed: %w", err)
		}
	}

	return len(records), nil
}

// Immutable ordered snapshot of the full catalog. Everything downstream
// (filtering, selection, RSVP) reads from this, never from the database.
type Catalog struct {
	events []model.Event
	byID   map[string]int
}

// FromEvents builds a snapshot straight from an ordered slice.
func FromEvents(events []model.Event) *Catalog {
	copied := make([]model.Event, len(events))
	copy(copied, events)

	byID := make(map[string]int, len(copied))
	for i, event := range copied {
		byID[event.ID] = i
	}
	return &Catalog{events: copied, byID: byID}
}

func Load(ctx context.Context, db *bun.DB) (*Catalog, error) {
	events := make([]model.Event, 0)
	if err := db.NewSelect().
		Model(&events).
		Order("seq ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}

	byID := make(map[string]int, len(events))
	for i, event := range events {
		byID[event.ID] = i
	}

	return &Catalog{events: events, byID: byID}, nil
}

// Events returns a copy of the snapshot in seed order.
func (c *Catalog) Events() []model.Event {
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Catalog) ByID(id string) (model.Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Event{}, false
	}
	return c.events[i], true
}

func (c *Catalog) Len() int {
	return len(c.events)
}
