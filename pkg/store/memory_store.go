package store

import (
	"context"
	"sync"
	"time"

	"schooldirectory/pkg/domain"
)

// MemoryStore keeps records in-process. It mirrors the relational store's
// id assignment and listing order, which makes it the fixture for app and
// server tests.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	schools []domain.School
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveSchool assigns the next id and appends the record.
func (m *MemoryStore) SaveSchool(_ context.Context, school domain.School) (domain.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	school.ID = m.nextID
	m.nextID++
	if school.CreatedAt.IsZero() {
		school.CreatedAt = time.Now().UTC()
	}
	m.schools = append(m.schools, school)
	return school, nil
}

// ListSchools returns records in insertion order.
func (m *MemoryStore) ListSchools(_ context.Context) ([]domain.School, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.School, len(m.schools))
	copy(out, m.schools)
	return out, nil
}

// GetSchool retrieves a record by id.
func (m *MemoryStore) GetSchool(_ context.Context, id int64) (domain.School, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.schools {
		if s.ID == id {
			return s, true, nil
		}
	}
	return domain.School{}, false, nil
}
