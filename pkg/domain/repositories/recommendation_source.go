package repositories

import (
	"context"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// RecommendationSource produces the per-product recommendation set for a boat and mode.
// An empty boat id selects the next applicable boat. Products must already carry their
// coverage gap, confidence and priority.
type RecommendationSource interface {
	GetRecommendations(
		ctx context.Context,
		boatID entities.BoatID,
		mode entities.Mode,
	) (*entities.RecommendationSet, error)
}
