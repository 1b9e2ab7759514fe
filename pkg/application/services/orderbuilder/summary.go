package orderbuilder

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
)

// Summarize derives the order totals from the current selections
func Summarize(lines []Line, boat entities.Boat, warehouseCurrent int, cfg config.EngineConfig) entities.OrderSummary {
	totalPallets := 0
	for _, line := range lines {
		if line.Selection.IsSelected {
			totalPallets += line.Selection.SelectedPallets
		}
	}

	containers := 0
	if totalPallets > 0 {
		containers = (totalPallets + cfg.PalletsPerContainer - 1) / cfg.PalletsPerContainer
	}

	remaining := boat.MaxContainers - containers
	if remaining < 0 {
		remaining = 0
	}

	after := warehouseCurrent + totalPallets

	return entities.OrderSummary{
		TotalPallets:              totalPallets,
		TotalContainers:           containers,
		TotalM2:                   palletArea(totalPallets, cfg.M2PerPallet).InexactFloat64(),
		BoatMaxContainers:         boat.MaxContainers,
		BoatRemainingContainers:   remaining,
		WarehouseCurrentPallets:   warehouseCurrent,
		WarehouseCapacity:         cfg.WarehouseCapacityPallets,
		WarehouseAfterDelivery:    after,
		WarehouseUtilizationAfter: float64(after) / float64(cfg.WarehouseCapacityPallets) * 100,
	}
}

func palletArea(pallets int, m2PerPallet float64) decimal.Decimal {
	return decimal.NewFromInt(int64(pallets)).Mul(decimal.NewFromFloat(m2PerPallet))
}
