package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ISO calendar date layout used everywhere an event date crosses a
// boundary. Lexicographic order on this layout equals chronological order.
const DateLayout = "2006-01-02"

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`          // required
	Title       string `bun:"title,notnull"`  // required
	Description string `bun:"description"`

	Date        string `bun:"date,notnull"` // required, ISO YYYY-MM-DD
	DateDisplay string `bun:"date_display"`
	Time        string `bun:"time"`

	Lat     float64 `bun:"lat,notnull"` // required
	Lng     float64 `bun:"lng,notnull"` // required
	Address string  `bun:"address"`
	City    string  `bun:"city"`

	Program string `bun:"program"`

	// announced but not yet open for RSVP
	ComingSoon bool `bun:"coming_soon"`

	// preserves seed-file order so equal-date sorts stay stable
	Seq int `bun:"seq,notnull"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.Date == "":
		return fmt.Errorf("(*Event).Upsert: date is blank")
	case e.Lat < -90 || e.Lat > 90:
		return fmt.Errorf("(*Event).Upsert: latitude out of range")
	case e.Lng < -180 || e.Lng > 180:
		return fmt.Errorf("(*Event).Upsert: longitude out of range")
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("(*Event).Upsert: date is invalid: %w", err)
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// Month component of the event date, e.g. "03".
func (e *Event) Month() string {
	if len(e.Date) < 7 {
		return ""
	}
	return e.Date[5:7]
}

// Whether the event date is strictly before today at day granularity.
func (e *Event) IsPast(today string) bool {
	return e.Date < today
}

// Whether the event date equals today, i.e. same-day check-in territory.
func (e *Event) IsSameDay(today string) bool {
	return e.Date == today
}

// Start of the event as a wall-clock time in loc, anchored at the fixed
// hour-of-day used for calendar exports.
func (e *Event) StartAt(loc *time.Location, anchorHour int) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, e.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("(*Event).StartAt: %w", err)
	}
	return day.Add(time.Duration(anchorHour) * time.Hour), nil
}
