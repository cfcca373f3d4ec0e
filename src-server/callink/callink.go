package callink

import (
	"fmt"
	"net/url"
	"roam/src-server/model"
	"strings"
	"time"
)

const (
	// events are exported as a nominal 2-hour block starting at this
	// hour-of-day; a presentation convenience, not a schedule guarantee
	AnchorHour    = 10
	BlockDuration = 2 * time.Hour

	compactLayout = "20060102T150405"
)

// Links holds the three calendar export variants for one event.
type Links struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
	ICS     string `json:"ics"`
}

// Build derives all three variants. Pure string construction; no network.
func Build(event model.Event, loc *time.Location) (Links, error) {
	start, err := event.StartAt(loc, AnchorHour)
	if err != nil {
		return Links{}, fmt.Errorf("callink.Build: %w", err)
	}
	end := start.Add(BlockDuration)

	return Links{
		Google:  googleURL(event, start, end),
		Outlook: outlookURL(event, start, end),
		ICS:     icsDataURI(event, start, end),
	}, nil
}

func googleURL(event model.Event, start time.Time, end time.Time) string {
	query := url.Values{}
	query.Set("action", "TEMPLATE")
	query.Set("text", event.Title)
	query.Set("details", event.Description)
	query.Set("location", event.Address)
	query.Set("dates", start.Format(compactLayout)+"/"+end.Format(compactLayout))
	return "https://calendar.google.com/calendar/render?" + query.Encode()
}

func outlookURL(event model.Event, start time.Time, end time.Time) string {
	query := url.Values{}
	query.Set("path", "/calendar/action/compose")
	query.Set("rru", "addevent")
	query.Set("subject", event.Title)
	query.Set("body", event.Description)
	query.Set("location", event.Address)
	query.Set("startdt", start.Format(time.RFC3339))
	query.Set("enddt", end.Format(time.RFC3339))
	return "https://outlook.live.com/calendar/0/action/compose?" + query.Encode()
}

func icsDataURI(event model.Event, start time.Time, end time.Time) string {
	var sb strings.Builder
	writer := split75wrapper(sb.WriteString)

	writer("BEGIN:VCALENDAR\n")
	writer("VERSION:2.0\n")
	writer("PRODID:-//roam//event-map//EN\n")
	writer("BEGIN:VEVENT\n")
	writer(fmt.Sprintf("UID:%s@roam\n", event.ID))
	writer(fmt.Sprintf("DTSTAMP:%s\n", time.Now().UTC().Format(compactLayout)+"Z"))
	writer(fmt.Sprintf("DTSTART:%s\n", start.Format(compactLayout)))
	writer(fmt.Sprintf("DTEND:%s\n", end.Format(compactLayout)))
	writer(fmt.Sprintf("SUMMARY:%s\n", escapeText(event.Title)))
	if event.Description != "" {
		writer(fmt.Sprintf("DESCRIPTION:%s\n", escapeText(event.Description)))
	}
	if event.Address != "" {
		writer(fmt.Sprintf("LOCATION:%s\n", escapeText(event.Address)))
	}
	writer("END:VEVENT\n")
	writer("END:VCALENDAR\n")

	return "data:text/calendar;charset=utf-8," + url.PathEscape(sb.String())
}

// escapeText escapes the characters iCalendar reserves inside text values.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// Transform a normal writer into one that folds long content lines at 75
// characters, continuation lines prefixed with a space.
func split75wrapper(writer func(string) (int, error)) func(string) (int, error) {
	return func(str string) (int, error) {
		if len(str) <= 75 {
			if i, err := writer(str); err != nil {
				return i, err
			}
			return len(str), nil
		}

		slice := func() []string {
			var slice []string
			for i := 0; i < len(str); i += 75 {
				begin := i
				end := i + 75
				if end > len(str) {
					end = len(str)
				}
				slice = append(slice, str[begin:end])
			}
			return slice
		}()
		for i, s := range slice {
			switch i {
			case 0:
				if i, err := writer(fmt.Sprintf("%s\n", s)); err != nil {
					return i, err
				}
			case len(slice) - 1:
				if i, err := writer(s); err != nil {
					return i, err
				}
			default:
				if i, err := writer(fmt.Sprintf(" %s\n", s)); err != nil {
					return i, err
				}
			}
		}

		return len(str), nil
	}
}
