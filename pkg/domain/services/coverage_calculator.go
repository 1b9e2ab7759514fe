package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// CoverageInput is the demand snapshot and horizon for a single coverage calculation
type CoverageInput struct {
	Product    *entities.Product
	Now        time.Time
	CoverUntil time.Time // arrival of the next restock opportunity
}

// CoverageGap is the shortfall between available stock and demand to the horizon
type CoverageGap struct {
	DaysToCover   int
	TotalDemandM2 float64
	GapM2         float64
	GapPallets    int
	NoSales       bool
}

// CoverageCalculator sizes the order needed to avoid a stockout before the next boat
type CoverageCalculator struct {
	m2PerPallet decimal.Decimal
	safetyDays  int
}

// NewCoverageCalculator creates a calculator for the given pallet area and safety window
func NewCoverageCalculator(m2PerPallet float64, safetyDays int) *CoverageCalculator {
	if safetyDays < 0 {
		safetyDays = 0
	}
	return &CoverageCalculator{
		m2PerPallet: decimal.NewFromFloat(m2PerPallet),
		safetyDays:  safetyDays,
	}
}

// Calculate computes the coverage gap for one product
func (c *CoverageCalculator) Calculate(in CoverageInput) CoverageGap {
	days := entities.DaysBetween(in.Now, in.CoverUntil) + c.safetyDays
	if days < 0 {
		days = 0
	}

	gap := CoverageGap{DaysToCover: days}

	// No demand signal: nothing to cover, but keep it distinguishable from well covered
	if in.Product.DailyVelocity <= 0 {
		gap.NoSales = true
		return gap
	}

	demand := decimal.NewFromFloat(in.Product.DailyVelocity).Mul(decimal.NewFromInt(int64(days)))
	available := decimal.NewFromFloat(in.Product.WarehouseStockM2).Add(decimal.NewFromFloat(in.Product.InTransitM2))

	shortfall := demand.Sub(available)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}

	gap.TotalDemandM2 = demand.Round(2).InexactFloat64()
	gap.GapM2 = shortfall.Round(2).InexactFloat64()
	gap.GapPallets = c.PalletsFor(shortfall)
	return gap
}

// PalletsFor converts an area into whole pallets, rounding up
func (c *CoverageCalculator) PalletsFor(areaM2 decimal.Decimal) int {
	if !areaM2.IsPositive() || !c.m2PerPallet.IsPositive() {
		return 0
	}
	return int(areaM2.Div(c.m2PerPallet).Ceil().IntPart())
}

// CoverageHorizon returns the date an order on the target boat must cover until:
// the following boat's arrival, or the target's arrival plus the lead time when no
// following boat is scheduled.
func CoverageHorizon(target *entities.Boat, following *entities.Boat, leadTimeDays int) time.Time {
	if following != nil {
		return following.ArrivalDate
	}
	return target.ArrivalDate.AddDate(0, 0, leadTimeDays)
}
