// Package filter derives the searched, status-filtered and selection-annotated
// view of an order collection.
package filter

import (
	"strings"
)

// Record is anything the dashboard can list.
type Record interface {
	// Key identifies the record; it is compared against the selected key.
	Key() string
	// SearchFields are matched against the free-text query.
	SearchFields() []string
	// StatusValue is matched against the accepted statuses.
	StatusValue() string
}

// Criteria selects records by free-text query and accepted statuses.
type Criteria struct {
	Query    string   `json:"query"`
	Statuses []string `json:"statuses"`
}

// Annotated is a matching record plus whether it is the selected one.
type Annotated[T Record] struct {
	Item   T    `json:"item" msgpack:"item"`
	Active bool `json:"active" msgpack:"active"`
}

// Matches reports whether r satisfies c.
func (c Criteria) Matches(r Record) bool {
	return c.matchesQuery(r, normalizeQuery(c.Query)) && c.matchesStatus(r)
}

func (c Criteria) matchesQuery(r Record, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range r.SearchFields() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (c Criteria) matchesStatus(r Record) bool {
	if len(c.Statuses) == 0 {
		return true
	}
	status := r.StatusValue()
	for _, s := range c.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Apply returns the records matching c in their original order, each marked
// active iff its key equals selectedKey. An empty selectedKey marks nothing.
// The result is never nil.
func Apply[T Record](records []T, c Criteria, selectedKey string) []Annotated[T] {
	q := normalizeQuery(c.Query)
	out := make([]Annotated[T], 0, len(records))
	for _, r := range records {
		if !c.matchesQuery(r, q) || !c.matchesStatus(r) {
			continue
		}
		out = append(out, Annotated[T]{
			Item:   r,
			Active: selectedKey != "" && r.Key() == selectedKey,
		})
	}
	return out
}

// Items strips the annotations.
func Items[T Record](annotated []Annotated[T]) []T {
	out := make([]T, len(annotated))
	for i, a := range annotated {
		out[i] = a.Item
	}
	return out
}

// Find returns the record with the given key.
func Find[T Record](records []T, key string) (T, bool) {
	for _, r := range records {
		if r.Key() == key {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
