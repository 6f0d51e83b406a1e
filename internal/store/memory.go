package store

import (
	"context"
	"sync"

	"github.com/sells-group/lead-cli/internal/model"
)

// Memory is a process-local LeadRepository.
type Memory struct {
	mu     sync.RWMutex
	leads  []model.Lead
	byID   map[string]int
	places map[string]bool
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{byID: map[string]int{}, places: map[string]bool{}}
}

// Add implements LeadRepository.
func (m *Memory) Add(_ context.Context, leads ...model.Lead) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, l := range leads {
		l = l.Clone()
		l.EnsureID()
		if _, ok := m.byID[l.ID]; ok {
			continue
		}
		if l.PlaceID != "" {
			if m.places[l.PlaceID] {
				continue
			}
			m.places[l.PlaceID] = true
		}
		m.byID[l.ID] = len(m.leads)
		m.leads = append(m.leads, l)
		added++
	}
	return added, nil
}

// List implements LeadRepository.
func (m *Memory) List(_ context.Context) ([]model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Lead, len(m.leads))
	for i, l := range m.leads {
		out[i] = l.Clone()
	}
	return out, nil
}

// Get implements LeadRepository.
func (m *Memory) Get(_ context.Context, id string) (*model.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	l := m.leads[i].Clone()
	return &l, nil
}

// Replace implements LeadRepository.
func (m *Memory) Replace(_ context.Context, lead model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.byID[lead.ID]
	if !ok {
		return notFound(lead.ID)
	}
	if old := m.leads[i].PlaceID; old != lead.PlaceID {
		delete(m.places, old)
		if lead.PlaceID != "" {
			m.places[lead.PlaceID] = true
		}
	}
	m.leads[i] = lead.Clone()
	return nil
}

// Clear implements LeadRepository.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leads = nil
	m.byID = map[string]int{}
	m.places = map[string]bool{}
	return nil
}

// Close implements LeadRepository.
func (m *Memory) Close() error { return nil }
