package filter

import (
	"roam/src-server/model"
	"sort"
	"strings"
)

// What the user currently has dialed in. Zero value means "upcoming
// events, nothing narrowed down".
type Criteria struct {
	// two-digit month ("01".."12"), empty for any month
	Month string
	// exact program label, empty for any program
	Program string
	// case-insensitive substring matched against city and address
	Query string
	// false selects the upcoming bucket, true the past bucket
	ShowPast bool
}

// Apply returns the events matching criteria, sorted ascending by date.
// today is the reference calendar day in model.DateLayout; it is a
// parameter on purpose so results are a pure function of the inputs.
// The sort is stable: events sharing a date keep their catalog order.
func Apply(events []model.Event, criteria Criteria, today string) []model.Event {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	matched := make([]model.Event, 0, len(events))
	for _, event := range events {
		if criteria.Month != "" && event.Month() != criteria.Month {
			continue
		}
		if criteria.Program != "" && event.Program != criteria.Program {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(event.City), query) &&
			!strings.Contains(strings.ToLower(event.Address), query) {
			continue
		}
		if event.IsPast(today) != criteria.ShowPast {
			continue
		}
		matched = append(matched, event)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date < matched[j].Date
	})

	return matched
}
