package recommendation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
	"github.com/vsinha/orderbuilder/pkg/domain/services"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
)

// Service computes recommendation sets from the product snapshot and boat schedule
type Service struct {
	products repositories.ProductRepository
	boats    repositories.BoatRepository

	cfg        config.EngineConfig
	coverage   *services.CoverageCalculator
	scorer     *services.ConfidenceScorer
	classifier *services.PriorityClassifier
	validator  *services.SnapshotValidator

	clock func() time.Time
	log   zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for day counts
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithConfidenceScorer overrides the default confidence thresholds
func WithConfidenceScorer(scorer *services.ConfidenceScorer) Option {
	return func(s *Service) {
		s.scorer = scorer
	}
}

// NewService creates a recommendation service
func NewService(
	products repositories.ProductRepository,
	boats repositories.BoatRepository,
	cfg config.EngineConfig,
	log zerolog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		products:   products,
		boats:      boats,
		cfg:        cfg,
		coverage:   services.NewCoverageCalculator(cfg.M2PerPallet, cfg.SafetyDays),
		scorer:     services.NewConfidenceScorer(),
		classifier: services.NewPriorityClassifier(),
		validator:  services.NewSnapshotValidator(),
		clock:      time.Now,
		log:        log.With().Str("component", "recommendation").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify interface compliance
var _ repositories.RecommendationSource = (*Service)(nil)

// GetRecommendations sizes, scores and classifies every product against the target boat.
// An empty boat id targets the next applicable boat.
func (s *Service) GetRecommendations(
	ctx context.Context,
	boatID entities.BoatID,
	mode entities.Mode,
) (*entities.RecommendationSet, error) {
	now := s.clock()

	boats, err := s.boats.GetBoats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: boat schedule: %w", entities.ErrDataUnavailable, err)
	}
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: products: %w", entities.ErrDataUnavailable, err)
	}
	reading, err := s.products.GetWarehouseReading(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse reading: %w", entities.ErrDataUnavailable, err)
	}

	if result := s.validator.ValidateSnapshot(products, boats); !result.Valid() {
		return nil, fmt.Errorf("%w: invalid snapshot: %s", entities.ErrDataUnavailable, strings.Join(result.Errors, "; "))
	}

	target, err := s.resolveBoat(boats, boatID, now)
	if err != nil {
		return nil, err
	}
	following := services.FollowingBoat(boats, target, now)
	horizon := services.HorizonFromBoats(target, following, now)
	coverUntil := services.CoverageHorizon(target, following, s.cfg.LeadTimeDays)

	recs := make([]entities.ProductRecommendation, 0, len(products))
	for _, p := range products {
		recs = append(recs, s.recommend(p, now, coverUntil, horizon))
	}

	set := &entities.RecommendationSet{
		Boat:                    *target,
		NextBoat:                following,
		Mode:                    mode,
		Products:                recs,
		WarehouseCurrentPallets: s.warehousePallets(products, reading),
		GeneratedAt:             now,
	}

	s.log.Debug().
		Str("boat_id", string(target.ID)).
		Str("mode", mode.String()).
		Int("products", len(recs)).
		Int("warehouse_pallets", set.WarehouseCurrentPallets).
		Msg("Recommendations computed")

	return set, nil
}

func (s *Service) resolveBoat(boats []*entities.Boat, boatID entities.BoatID, now time.Time) (*entities.Boat, error) {
	if boatID == "" {
		next, _ := services.SelectUpcoming(boats, now)
		if next == nil {
			return nil, entities.ErrNoUpcomingBoat
		}
		return next, nil
	}

	for _, b := range boats {
		if b.ID == boatID {
			if b.DaysUntilDeparture(now) < 0 {
				s.log.Warn().Str("boat_id", string(b.ID)).Msg("Planning against a boat that has already departed")
			}
			return b, nil
		}
	}
	return nil, fmt.Errorf("boat %s: %w", boatID, entities.ErrUnknownBoat)
}

func (s *Service) recommend(
	p *entities.Product,
	now, coverUntil time.Time,
	horizon services.BoatHorizon,
) entities.ProductRecommendation {
	product := *p
	services.ApplyWeeklyHistory(&product)

	gap := s.coverage.Calculate(services.CoverageInput{Product: &product, Now: now, CoverUntil: coverUntil})
	confidence, confidenceReason := s.scorer.Score(&product)
	priority, priorityReason := s.classifier.Classify(&product, horizon)

	return entities.ProductRecommendation{
		Product:            product,
		CoverageGapM2:      gap.GapM2,
		CoverageGapPallets: gap.GapPallets,
		TotalDemandM2:      gap.TotalDemandM2,
		DaysToCover:        gap.DaysToCover,
		NoSales:            gap.NoSales,
		Confidence:         confidence,
		ConfidenceReason:   confidenceReason,
		Priority:           priority,
		PriorityReason:     priorityReason,
	}
}

// warehousePallets prefers a measured reading and otherwise converts on-hand area to pallets
func (s *Service) warehousePallets(products []*entities.Product, reading *entities.WarehouseReading) int {
	if reading != nil {
		return reading.CurrentPallets
	}
	total := 0.0
	for _, p := range products {
		total += p.WarehouseStockM2
	}
	return int(math.Ceil(total / s.cfg.M2PerPallet))
}
