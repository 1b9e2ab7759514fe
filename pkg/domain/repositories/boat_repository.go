package repositories

import (
	"context"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// BoatRepository provides access to the boat schedule
type BoatRepository interface {
	GetBoats(ctx context.Context) ([]*entities.Boat, error)
	// GetBoat returns entities.ErrUnknownBoat when the id is not scheduled
	GetBoat(ctx context.Context, id entities.BoatID) (*entities.Boat, error)
	LoadBoats(boats []*entities.Boat) error
}
