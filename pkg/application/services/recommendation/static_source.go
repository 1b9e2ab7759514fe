package recommendation

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
)

// StaticSource serves precomputed recommendation sets, for tests and for
// recommendations computed upstream
type StaticSource struct {
	mu    sync.Mutex
	sets  map[entities.BoatID]*entities.RecommendationSet
	first entities.BoatID
	err   error
	calls int
}

// NewStaticSource creates a source serving the given sets; the first one answers empty boat ids
func NewStaticSource(sets ...*entities.RecommendationSet) *StaticSource {
	s := &StaticSource{sets: make(map[entities.BoatID]*entities.RecommendationSet)}
	for _, set := range sets {
		s.Put(set)
	}
	return s
}

// Verify interface compliance
var _ repositories.RecommendationSource = (*StaticSource)(nil)

// Put adds or replaces the set served for its boat
func (s *StaticSource) Put(set *entities.RecommendationSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.first == "" {
		s.first = set.Boat.ID
	}
	s.sets[set.Boat.ID] = set
}

// Fail makes subsequent calls return err; nil restores normal operation
func (s *StaticSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times GetRecommendations was invoked
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// GetRecommendations returns a copy of the stored set for the boat
func (s *StaticSource) GetRecommendations(
	ctx context.Context,
	boatID entities.BoatID,
	mode entities.Mode,
) (*entities.RecommendationSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrDataUnavailable, s.err)
	}

	if boatID == "" {
		boatID = s.first
	}
	set, ok := s.sets[boatID]
	if !ok {
		if boatID == "" {
			return nil, entities.ErrNoUpcomingBoat
		}
		return nil, fmt.Errorf("boat %s: %w", boatID, entities.ErrUnknownBoat)
	}

	out := *set
	out.Mode = mode
	out.Products = append([]entities.ProductRecommendation(nil), set.Products...)
	return &out, nil
}
