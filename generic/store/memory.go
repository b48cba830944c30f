// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/shift-payroll/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	people  map[generic.PersonID]generic.Person
	entries map[generic.PersonID][]generic.Entry
	runs    map[generic.PersonID][]generic.Run
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		people:  make(map[generic.PersonID]generic.Person),
		entries: make(map[generic.PersonID][]generic.Entry),
		runs:    make(map[generic.PersonID][]generic.Run),
	}
}

func (m *Memory) SavePerson(_ context.Context, p generic.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.people[p.ID]; ok && p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	m.people[p.ID] = p
	return nil
}

func (m *Memory) GetPerson(_ context.Context, id generic.PersonID) (*generic.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.people[id]
	if !ok {
		return nil, generic.ErrPersonNotFound
	}
	return &p, nil
}

func (m *Memory) ListPeople(_ context.Context) ([]generic.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.Person, 0, len(m.people))
	for _, p := range m.people {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SaveEntry upserts by ID and keeps each person's entries sorted by date;
// entries on the same date stay in insertion order.
func (m *Memory) SaveEntry(_ context.Context, e generic.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeEntry(e.ID)

	entries := m.entries[e.PersonID]
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Date.After(e.Date)
	})
	entries = append(entries, generic.Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	m.entries[e.PersonID] = entries
	return nil
}

func (m *Memory) DeleteEntry(_ context.Context, id generic.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.removeEntry(id) {
		return generic.ErrEntryNotFound
	}
	return nil
}

// removeEntry must be called with mu held.
func (m *Memory) removeEntry(id generic.EntryID) bool {
	for pid, entries := range m.entries {
		for i, e := range entries {
			if e.ID == id {
				m.entries[pid] = append(entries[:i:i], entries[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (m *Memory) ListEntries(_ context.Context, personID generic.PersonID, from, to generic.TimePoint) ([]generic.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.Entry
	for _, e := range m.entries[personID] {
		if from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) SaveRun(_ context.Context, r generic.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.PersonID] = append(m.runs[r.PersonID], r)
	return nil
}

func (m *Memory) ListRuns(_ context.Context, personID generic.PersonID) ([]generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := m.runs[personID]
	result := make([]generic.Run, len(runs))
	for i, r := range runs {
		result[len(runs)-1-i] = r
	}
	return result, nil
}
