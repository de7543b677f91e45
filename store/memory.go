package store

import (
	"context"
	"sync"

	"franchise-api/models"

	"github.com/google/uuid"
)

// MemoryRepository keeps aggregates in process memory. Values are deep-copied
// on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Franchise
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]models.Franchise),
	}
}

func (r *MemoryRepository) Save(_ context.Context, f models.Franchise) (models.Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := f.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := r.items[stored.ID]; !exists {
		r.order = append(r.order, stored.ID)
	}
	r.items[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (models.Franchise, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[id]
	if !ok {
		return models.Franchise{}, false, nil
	}
	return f.Clone(), true, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]models.Franchise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Franchise, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
