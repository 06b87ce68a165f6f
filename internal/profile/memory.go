package profile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

// MemoryStore is an in-process Store for tests and single-instance runs.
type MemoryStore struct {
	mu           sync.Mutex
	profiles     map[string]*Profile
	events       []TraitEvent
	interactions []Interaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (m *MemoryStore) FindProfile(_ context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(*p)
	return &cp, nil
}

func (m *MemoryStore) CreateProfile(_ context.Context, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.UserID]; ok {
		return nil
	}
	cp := clone(p)
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *MemoryStore) RecordVisit(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.InteractionCount++
	p.LastInteraction = at
	return nil
}

func (m *MemoryStore) AddTraits(_ context.Context, userID string, ts []traits.Trait) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.LearnedPatterns = union(p.LearnedPatterns, ts)
	return nil
}

func (m *MemoryStore) UpdatePreferences(_ context.Context, userID string, prefs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.Preferences = maps.Clone(prefs)
	return nil
}

func (m *MemoryStore) AppendTraitEvent(_ context.Context, ev TraitEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.Traits = slices.Clone(ev.Traits)
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryStore) RecentTraitEvents(_ context.Context, userID string, limit int) ([]TraitEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TraitEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].UserID == userID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertInteraction(_ context.Context, in Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.Metadata = maps.Clone(in.Metadata)
	m.interactions = append(m.interactions, in)
	return nil
}

func (m *MemoryStore) CountInteractionsBy(_ context.Context, userID, field string) ([]FieldCount, error) {
	if !ValidField(field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	m.mu.Lock()
	counts := make(map[string]int)
	for _, in := range m.interactions {
		if in.UserID != userID {
			continue
		}
		switch field {
		case FieldScenario:
			counts[in.Scenario]++
		case FieldEmotion:
			counts[in.Emotion]++
		case FieldMode:
			counts[in.Mode]++
		}
	}
	m.mu.Unlock()

	out := make([]FieldCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, FieldCount{Value: v, Count: n})
	}
	SortCounts(out)
	return out, nil
}

// SortCounts orders counts by descending count, then by value.
func SortCounts(counts []FieldCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
}

func clone(p Profile) Profile {
	p.LearnedPatterns = slices.Clone(p.LearnedPatterns)
	p.Preferences = maps.Clone(p.Preferences)
	return p
}

func union(have, add []traits.Trait) []traits.Trait {
	out := append(slices.Clone(have), add...)
	slices.Sort(out)
	return slices.Compact(out)
}
