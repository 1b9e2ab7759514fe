package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/application/services/orderbuilder"
	"github.com/vsinha/orderbuilder/pkg/application/services/recommendation"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Create repositories
	productRepo := memory.NewProductRepository(3)
	boatRepo := memory.NewBoatRepository()

	// Set up a small showroom snapshot
	setupShowroom(productRepo, boatRepo, today)

	cfg := config.DefaultEngineConfig()
	source := recommendation.NewService(productRepo, boatRepo, cfg, log,
		recommendation.WithClock(func() time.Time { return today }))
	engine, err := orderbuilder.NewEngine(source, cfg, log,
		orderbuilder.WithClock(func() time.Time { return today }))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("🚢 Building the order for the next boat...")
	if err := engine.Initialize(ctx, "", entities.ModeStandard); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printOrder(engine)

	// The planner drops the volatile line and doubles down on the steady seller
	fmt.Println("\n✏️  Dropping TILE-90-BEI and ordering 20 pallets of TILE-60-GRY...")
	engine.ToggleSelect("P-CONS")
	engine.SetQuantity("P-HIGH", 20)

	printOrder(engine)

	export, err := engine.Export()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("\n📄 Export:\n%s\n", export)
}

func setupShowroom(products *memory.ProductRepository, boats *memory.BoatRepository, today time.Time) {
	share := func(v float64) *float64 { return &v }

	products.AddProduct(entities.Product{
		ID: "P-HIGH", SKU: "TILE-60-GRY", WarehouseStockM2: 810, DailyVelocity: 30, WeeksOfData: 16,
		VelocityCV: share(0.3), UniqueCustomers: 12, TopCustomerShare: share(0.2), RecurringCustomers: 9,
	})
	products.AddProduct(entities.Product{
		ID: "P-CONS", SKU: "TILE-90-BEI", WarehouseStockM2: 1200, DailyVelocity: 27, WeeksOfData: 10,
		VelocityCV: share(1.4), UniqueCustomers: 8, TopCustomerShare: share(0.25), RecurringCustomers: 5,
	})
	products.AddProduct(entities.Product{
		ID: "P-NEW", SKU: "TERRAZZO-01",
	})
	products.SetWarehouseReading(entities.WarehouseReading{CurrentPallets: 600, RecordedAt: today})

	boats.AddBoat(entities.Boat{
		ID: "B1", Name: "MSC Aurora", MaxContainers: 5,
		DepartureDate:   today.AddDate(0, 0, 11),
		ArrivalDate:     today.AddDate(0, 0, 36),
		BookingDeadline: today.AddDate(0, 0, 6),
	})
	boats.AddBoat(entities.Boat{
		ID: "B2", Name: "Maersk Lima", MaxContainers: 5,
		DepartureDate:   today.AddDate(0, 0, 25),
		ArrivalDate:     today.AddDate(0, 0, 50),
		BookingDeadline: today.AddDate(0, 0, 20),
	})
}

func printOrder(engine *orderbuilder.Engine) {
	for _, line := range engine.Lines() {
		rec := line.Recommendation
		fmt.Printf("  %-14s %-14s gap %2d plt  selected %2d  (%s %s)\n",
			rec.SKU, rec.Priority, rec.CoverageGapPallets, line.Selection.SelectedPallets,
			rec.Confidence, rec.ConfidenceReason)
	}

	s := engine.Summary()
	fmt.Printf("  Total: %d pallets, %d/%d containers, warehouse %.0f%% after delivery\n",
		s.TotalPallets, s.TotalContainers, s.BoatMaxContainers, s.WarehouseUtilizationAfter)

	for _, a := range engine.Alerts() {
		fmt.Printf("  %s %s %s\n", a.Icon, a.ProductSKU, a.Message)
	}
}
