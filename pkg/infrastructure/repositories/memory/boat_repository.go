package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
)

// BoatRepository provides in-memory boat schedule storage
type BoatRepository struct {
	mu       sync.RWMutex
	boats    []entities.Boat
	boatsMap map[entities.BoatID]int
}

// NewBoatRepository creates a new in-memory boat repository
func NewBoatRepository() *BoatRepository {
	return &BoatRepository{
		boats:    []entities.Boat{},
		boatsMap: make(map[entities.BoatID]int),
	}
}

// Verify interface compliance
var _ repositories.BoatRepository = (*BoatRepository)(nil)

// LoadBoats loads boats into the repository
func (r *BoatRepository) LoadBoats(boats []*entities.Boat) error {
	for _, b := range boats {
		r.AddBoat(*b)
	}
	return nil
}

// AddBoat adds a boat, replacing any existing boat with the same id
func (r *BoatRepository) AddBoat(b entities.Boat) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.boatsMap[b.ID]; exists {
		r.boats[index] = b
		return
	}
	r.boatsMap[b.ID] = len(r.boats)
	r.boats = append(r.boats, b)
}

// GetBoats returns copies of all scheduled boats
func (r *BoatRepository) GetBoats(ctx context.Context) ([]*entities.Boat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	boats := make([]*entities.Boat, 0, len(r.boats))
	for i := range r.boats {
		b := r.boats[i]
		boats = append(boats, &b)
	}
	return boats, nil
}

// GetBoat returns a scheduled boat by id
func (r *BoatRepository) GetBoat(ctx context.Context, id entities.BoatID) (*entities.Boat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.boatsMap[id]
	if !exists {
		return nil, fmt.Errorf("boat %s: %w", id, entities.ErrUnknownBoat)
	}
	b := r.boats[index]
	return &b, nil
}
