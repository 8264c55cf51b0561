// Package catalog loads the read-only exercise taxonomy from the practice's
// CSV and serves it from a short-lived cache.
package catalog

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Defaults applied when the sheet leaves serie/ripetizioni blank or
// unparsable.
const (
	DefaultSets = 3
	DefaultReps = 10
)

// GeneralRegion entries belong to every region's selection.
const GeneralRegion = "generale"

// CacheTTL matches the 60 second refresh the catalog has always used.
const CacheTTL = 60 * time.Second

// Entry is one catalog exercise. Immutable once loaded.
type Entry struct {
	Name        string `json:"nome"`
	Region      string `json:"distretto"`
	Description string `json:"descrizione"`
	Difficulty  string `json:"difficoltà"`
	DemoLink    string `json:"link_video"`
	DefaultSets int    `json:"serie"`
	DefaultReps int    `json:"ripetizioni"`
}

// EligibleForRegion is the named inclusion rule: an exercise belongs to
// region r when its own region is r or the general sentinel.
func EligibleForRegion(e Entry, region string) bool {
	return e.Region == region || e.Region == GeneralRegion || e.Region == "general"
}

type Loader struct {
	path string
	ttl  time.Duration

	mu       sync.Mutex
	entries  []Entry
	loadedAt time.Time
}

func NewLoader(path string) *Loader {
	return &Loader{path: path, ttl: CacheTTL}
}

// NewLoaderTTL exists for tests that need a short or zero cache window.
func NewLoaderTTL(path string, ttl time.Duration) *Loader {
	return &Loader{path: path, ttl: ttl}
}

// Entries returns the cached catalog, re-reading the CSV once the cache
// window has passed.
func (l *Loader) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries != nil && time.Since(l.loadedAt) < l.ttl {
		return l.entries, nil
	}
	entries, err := readCSV(l.path)
	if err != nil {
		return nil, err
	}
	l.entries = entries
	l.loadedAt = time.Now()
	return l.entries, nil
}

// Regions lists the distinct body regions, sorted, without the general
// sentinel.
func (l *Loader) Regions() ([]string, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Region != "" && e.Region != GeneralRegion && e.Region != "general" {
			seen[e.Region] = true
		}
	}
	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions, nil
}

// ForRegion returns the region's exercises plus every general entry.
func (l *Loader) ForRegion(region string) ([]Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range entries {
		if EligibleForRegion(e, region) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Find looks an exercise up by its unique name.
func (l *Loader) Find(name string) (Entry, bool) {
	entries, err := l.Entries()
	if err != nil {
		return Entry{}, false
	}
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func readCSV(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Entry{}, nil
	}

	col := make(map[string]int)
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := field(row, "nome")
		if name == "" {
			continue
		}
		entries = append(entries, Entry{
			Name:        name,
			Region:      field(row, "distretto"),
			Description: field(row, "descrizione"),
			Difficulty:  field(row, "difficoltà"),
			DemoLink:    field(row, "link_video"),
			DefaultSets: intOrDefault(field(row, "serie"), DefaultSets),
			DefaultReps: intOrDefault(field(row, "ripetizioni"), DefaultReps),
		})
	}
	return entries, nil
}

func intOrDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
