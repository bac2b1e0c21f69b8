// Package query computes the displayed subset and order of entries from the
// full collection. Every function here is pure: inputs are never modified.
package query

import (
	"sort"
	"strings"

	"github.com/sadopc/datamgr/internal/model"
)

// Filter is the active filter set. Empty fields match everything.
type Filter struct {
	Search    string
	Tags      []string
	Countries []string
	Statuses  []model.Status
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || len(f.Tags) > 0 || len(f.Countries) > 0 || len(f.Statuses) > 0
}

// Match reports whether e passes search AND tags AND country AND status.
func (f Filter) Match(e model.Entry) bool {
	return matchesSearch(e, f.Search) &&
		matchesTags(e, f.Tags) &&
		matchesCountry(e, f.Countries) &&
		matchesStatus(e, f.Statuses)
}

// Search looks at machine id, description, category and country only.
func matchesSearch(e model.Entry, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, field := range []string{e.MachineID, e.Description, e.Category, e.Country} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Every selected tag must be present on the entry.
func matchesTags(e model.Entry, tags []string) bool {
	for _, id := range tags {
		if !e.HasTag(id) {
			return false
		}
	}
	return true
}

func matchesCountry(e model.Entry, countries []string) bool {
	if len(countries) == 0 {
		return true
	}
	for _, c := range countries {
		if c == e.Country {
			return true
		}
	}
	return false
}

func matchesStatus(e model.Entry, statuses []model.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == e.Status {
			return true
		}
	}
	return false
}

// Apply filters then sorts, returning a new slice.
func Apply(entries []model.Entry, f Filter, s Sort) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	s.apply(out)
	return out
}

// IDs returns the ids of entries in order.
func IDs(entries []model.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Countries lists the distinct non-empty country codes, sorted.
func Countries(entries []model.Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Country == "" || seen[e.Country] {
			continue
		}
		seen[e.Country] = true
		out = append(out, e.Country)
	}
	sort.Strings(out)
	return out
}

// ToggleString adds v to set, or removes it when already present.
func ToggleString(set []string, v string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// ToggleStatus is ToggleString for status sets.
func ToggleStatus(set []model.Status, v model.Status) []model.Status {
	out := make([]model.Status, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}
