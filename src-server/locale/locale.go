package locale

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// every table falls back to this language for missing keys
const fallbackCode = "en"

// Table is the fixed set of named strings one language exposes to the
// shell and the RSVP flow.
type Table struct {
	Code string `yaml:"-"`

	// printf pattern for the "N events shown" line, e.g. "%d events shown"
	EventsShownFormat string `yaml:"events_shown_format"`
	EmptyState        string `yaml:"empty_state"`

	UpcomingLabel string `yaml:"upcoming_label"`
	PastLabel     string `yaml:"past_label"`
	ComingSoon    string `yaml:"coming_soon"`

	RsvpOpen     string `yaml:"rsvp_open"`
	RsvpSuccess  string `yaml:"rsvp_success"`
	RsvpError    string `yaml:"rsvp_error"`
	ShareCopied  string `yaml:"share_copied"`

	// printf pattern taking title and link, in that order
	ShareTextFormat string `yaml:"share_text_format"`
}

// ShareText renders the composed share line for one event.
func (t Table) ShareText(title string, link string) string {
	return fmt.Sprintf(t.ShareTextFormat, title, link)
}

// Store holds every loaded language table and picks the best one for a
// requested language code.
type Store struct {
	tables  map[string]Table
	tags    []language.Tag
	codes   []string
	matcher language.Matcher
}

// LoadDir reads one YAML file per language from dir ("en.yaml", "es.yaml",
// ...). The English table is mandatory; it is the fallback for everything.
func LoadDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("locale.LoadDir: %w", err)
	}

	tables := make(map[string]Table)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		code := strings.TrimSuffix(name, ".yaml")

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("locale.LoadDir: %w", err)
		}
		var table Table
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("locale.LoadDir: can't parse %s: %w", name, err)
		}
		table.Code = code
		tables[code] = table
		slog.Debug("locale table loaded", "code", code)
	}

	english, ok := tables[fallbackCode]
	if !ok {
		return nil, fmt.Errorf("locale.LoadDir: no %s.yaml in %s", fallbackCode, dir)
	}

	// fallback goes first so the matcher prefers it on no-match
	codes := []string{fallbackCode}
	for code := range tables {
		if code != fallbackCode {
			codes = append(codes, code)
		}
	}
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("locale.LoadDir: bad language code %q: %w", code, err)
		}
		tags = append(tags, tag)
	}

	// fill holes in every non-English table from English
	for code, table := range tables {
		tables[code] = mergeFallback(table, english)
	}

	return &Store{
		tables:  tables,
		tags:    tags,
		codes:   codes,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Resolve picks the best table for a requested code; unknown or malformed
// codes land on English.
func (s *Store) Resolve(code string) Table {
	tag, err := language.Parse(code)
	if err != nil {
		return s.tables[fallbackCode]
	}
	_, index, _ := s.matcher.Match(tag)
	return s.tables[s.codes[index]]
}

// EventsShown renders the localized "N events shown" line.
func (s *Store) EventsShown(code string, n int) string {
	return fmt.Sprintf(s.Resolve(code).EventsShownFormat, n)
}

// Codes lists the loaded language codes, fallback first.
func (s *Store) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

func mergeFallback(table Table, english Table) Table {
	if table.EventsShownFormat == "" {
		table.EventsShownFormat = english.EventsShownFormat
	}
	if table.EmptyState == "" {
		table.EmptyState = english.EmptyState
	}
	if table.UpcomingLabel == "" {
		table.UpcomingLabel = english.UpcomingLabel
	}
	if table.PastLabel == "" {
		table.PastLabel = english.PastLabel
	}
	if table.ComingSoon == "" {
		table.ComingSoon = english.ComingSoon
	}
	if table.RsvpOpen == "" {
		table.RsvpOpen = english.RsvpOpen
	}
	if table.RsvpSuccess == "" {
		table.RsvpSuccess = english.RsvpSuccess
	}
	if table.RsvpError == "" {
		table.RsvpError = english.RsvpError
	}
	if table.ShareCopied == "" {
		table.ShareCopied = english.ShareCopied
	}
	if table.ShareTextFormat == "" {
		table.ShareTextFormat = english.ShareTextFormat
	}
	return table
}
