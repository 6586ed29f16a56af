package plugin

import (
	"sort"
	"sync"
)

// WorkingSet yields the entries advertised under an extension point
type WorkingSet interface {
	// IterEntries returns the entries registered for group in registration order
	IterEntries(group string) []Entry
}

var (
	// defaultTable is the process-wide working set filled from init() functions
	defaultTable = NewTable()
)

// Table is an in-memory WorkingSet
type Table struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{
		entries: make(map[string][]Entry),
	}
}

// Register adds an entry to the default working set.
// This is typically called from plugin init() functions.
func Register(group string, e Entry) {
	defaultTable.Add(group, e)
}

// DefaultWorkingSet returns the default working set
func DefaultWorkingSet() *Table {
	return defaultTable
}

// Add appends an entry to group. Entries sharing an id are all kept.
func (t *Table) Add(group string, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[group] = append(t.entries[group], e)
}

// IterEntries returns a copy of the entries of group
func (t *Table) IterEntries(group string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]Entry, len(t.entries[group]))
	copy(entries, t.entries[group])
	return entries
}

// Groups returns the names of all groups, sorted
func (t *Table) Groups() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	groups := make([]string, 0, len(t.entries))
	for g := range t.entries {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of entries in group
func (t *Table) Count(group string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries[group])
}

// Clear removes all entries.
// This is primarily useful for testing
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[string][]Entry)
}
