package category

import "strings"

// Store serves the place-type dropdown and names place types in logs.
type Store interface {
	List() []Category
	Label(value string) string
	Known(value string) bool
}

// MemoryStore keeps categories in display order with a value index.
type MemoryStore struct {
	items  []Category
	labels map[string]string
}

// NewMemoryStore indexes items by value. Blank values are skipped and the
// first occurrence of a duplicated value wins.
func NewMemoryStore(items []Category) *MemoryStore {
	s := &MemoryStore{labels: make(map[string]string, len(items))}
	for _, item := range items {
		if item.Value == "" {
			continue
		}
		if _, dup := s.labels[item.Value]; dup {
			continue
		}
		s.labels[item.Value] = item.Label
		s.items = append(s.items, item)
	}
	return s
}

// List returns the categories in display order.
func (s *MemoryStore) List() []Category {
	return append([]Category(nil), s.items...)
}

// Label returns the display name of a place type. Free-form types the
// provider still accepts read as their words, e.g. "night_club" -> "night club".
func (s *MemoryStore) Label(value string) string {
	if label, ok := s.labels[value]; ok {
		return label
	}
	return strings.ReplaceAll(value, "_", " ")
}

// Known reports whether value is one of the offered place types.
func (s *MemoryStore) Known(value string) bool {
	_, ok := s.labels[value]
	return ok
}
