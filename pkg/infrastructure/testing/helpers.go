package testing

import (
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/memory"
)

// Today is the reference "now" the fixtures are built around
var Today = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Date parses a YYYY-MM-DD date, panicking on bad input
func Date(s string) time.Time {
	d, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustCreateProduct is a helper for tests - panics on validation error
func MustCreateProduct(
	id, sku string,
	warehouseM2, inTransitM2, dailyVelocity float64,
	weeksOfData int,
	velocityCV *float64,
	uniqueCustomers int,
	topCustomerShare *float64,
	recurringCustomers int,
) *entities.Product {
	p, err := entities.NewProduct(
		entities.ProductID(id),
		sku,
		warehouseM2,
		inTransitM2,
		dailyVelocity,
		weeksOfData,
		velocityCV,
		uniqueCustomers,
		topCustomerShare,
		recurringCustomers,
	)
	if err != nil {
		panic(err)
	}
	return p
}

// MustCreateBoat is a helper for tests - panics on validation error
func MustCreateBoat(id, name, departure, arrival, deadline string, maxContainers int) *entities.Boat {
	b, err := entities.NewBoat(entities.BoatID(id), name, Date(departure), Date(arrival), Date(deadline), maxContainers)
	if err != nil {
		panic(err)
	}
	return b
}

// BuildShowroomTestData builds a tile distributor snapshot around Today:
// three upcoming boats, one departed, and products covering every priority bucket.
func BuildShowroomTestData() (*memory.ProductRepository, *memory.BoatRepository) {
	productRepo := memory.NewProductRepository(6)
	boatRepo := memory.NewBoatRepository()

	departed := MustCreateBoat("B0", "CMA Orion", "2026-02-20", "2026-03-17", "2026-02-15", 5)
	departed.Status = entities.BoatDeparted

	boats := []*entities.Boat{
		departed,
		MustCreateBoat("B1", "MSC Aurora", "2026-03-12", "2026-04-06", "2026-03-07", 5),
		MustCreateBoat("B2", "Maersk Lima", "2026-03-26", "2026-04-20", "2026-03-21", 5),
		MustCreateBoat("B3", "Hapag Tide", "2026-04-09", "2026-05-04", "2026-04-04", 4),
	}
	if err := boatRepo.LoadBoats(boats); err != nil {
		panic(err)
	}

	slate := MustCreateProduct("P-RAW", "SLATE-BLK", 900, 0, 0, 0, nil, 4, Float(0.35), 3)
	slate.WeeklySalesM2 = []float64{84, 91, 77, 98}

	products := []*entities.Product{
		// runs out in 27 days, before B1 arrives in 36
		MustCreateProduct("P-HIGH", "TILE-60-GRY", 810, 0, 30, 16, Float(0.3), 12, Float(0.2), 9),
		// runs out in ~44 days, between B1 and B2
		MustCreateProduct("P-CONS", "TILE-90-BEI", 1200, 0, 27, 10, Float(1.4), 8, Float(0.25), 5),
		MustCreateProduct("P-WELL", "MOSAIC-WHT", 3000, 0, 10, 20, Float(0.2), 15, Float(0.1), 11),
		MustCreateProduct("P-NEW", "TERRAZZO-01", 0, 0, 0, 0, nil, 0, nil, 0),
		// one customer takes 65% of volume
		MustCreateProduct("P-LOWC", "WOOD-OAK", 200, 135, 12, 8, Float(0.5), 2, Float(0.65), 1),
		slate,
	}
	if err := productRepo.LoadProducts(products); err != nil {
		panic(err)
	}

	productRepo.SetWarehouseReading(entities.WarehouseReading{CurrentPallets: 600, RecordedAt: Date("2026-03-01")})

	return productRepo, boatRepo
}

// RecommendationBuilder builds ProductRecommendation fixtures for engine tests
type RecommendationBuilder struct {
	rec entities.ProductRecommendation
}

// Recommendation starts a HIGH confidence, WELL_COVERED recommendation with no gap
func Recommendation(id string) *RecommendationBuilder {
	return &RecommendationBuilder{rec: entities.ProductRecommendation{
		Product: entities.Product{
			ID:              entities.ProductID(id),
			SKU:             "SKU-" + id,
			DailyVelocity:   10,
			WeeksOfData:     12,
			UniqueCustomers: 5,
		},
		Confidence: entities.ConfidenceHigh,
		Priority:   entities.PriorityWellCovered,
	}}
}

// Gap sets the coverage gap in pallets, with the matching area at 135 m² per pallet
func (b *RecommendationBuilder) Gap(pallets int) *RecommendationBuilder {
	b.rec.CoverageGapPallets = pallets
	b.rec.CoverageGapM2 = float64(pallets) * 135
	return b
}

// Priority sets the priority bucket
func (b *RecommendationBuilder) Priority(p entities.Priority) *RecommendationBuilder {
	b.rec.Priority = p
	return b
}

// Confidence sets the confidence rating and its reason
func (b *RecommendationBuilder) Confidence(c entities.Confidence, reason string) *RecommendationBuilder {
	b.rec.Confidence = c
	b.rec.ConfidenceReason = reason
	return b
}

// NoSales marks the product as having no velocity
func (b *RecommendationBuilder) NoSales() *RecommendationBuilder {
	b.rec.DailyVelocity = 0
	b.rec.NoSales = true
	return b
}

// Build returns the recommendation
func (b *RecommendationBuilder) Build() entities.ProductRecommendation {
	return b.rec
}

// NewRecommendationSet assembles a recommendation set for a boat
func NewRecommendationSet(
	boat *entities.Boat,
	mode entities.Mode,
	warehousePallets int,
	recs ...entities.ProductRecommendation,
) *entities.RecommendationSet {
	return &entities.RecommendationSet{
		Boat:                    *boat,
		Mode:                    mode,
		Products:                recs,
		WarehouseCurrentPallets: warehousePallets,
		GeneratedAt:             Today,
	}
}
