package entities

import "fmt"

// ProductID represents an opaque, unique product identifier
type ProductID string

// Product is the upstream demand snapshot for a single product
type Product struct {
	ID                 ProductID
	SKU                string
	Description        string
	WarehouseStockM2   float64
	InTransitM2        float64
	DailyVelocity      float64 // m²/day, 0 = no sales history
	WeeksOfData        int
	VelocityCV         *float64 // nil when fewer than 2 data points
	UniqueCustomers    int
	TopCustomerName    string
	TopCustomerShare   *float64 // nil when there are no customers
	RecurringCustomers int
	WeeklySalesM2      []float64 // optional raw history, oldest first
}

// NewProduct creates a validated Product
func NewProduct(
	id ProductID,
	sku string,
	warehouseStockM2, inTransitM2, dailyVelocity float64,
	weeksOfData int,
	velocityCV *float64,
	uniqueCustomers int,
	topCustomerShare *float64,
	recurringCustomers int,
) (*Product, error) {
	p := &Product{
		ID:                 id,
		SKU:                sku,
		WarehouseStockM2:   warehouseStockM2,
		InTransitM2:        inTransitM2,
		DailyVelocity:      dailyVelocity,
		WeeksOfData:        weeksOfData,
		VelocityCV:         velocityCV,
		UniqueCustomers:    uniqueCustomers,
		TopCustomerShare:   topCustomerShare,
		RecurringCustomers: recurringCustomers,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the snapshot invariants
func (p *Product) Validate() error {
	if string(p.ID) == "" {
		return fmt.Errorf("product id cannot be empty")
	}
	if p.SKU == "" {
		return fmt.Errorf("sku cannot be empty")
	}
	if p.WarehouseStockM2 < 0 {
		return fmt.Errorf("warehouse stock cannot be negative, got %g", p.WarehouseStockM2)
	}
	if p.InTransitM2 < 0 {
		return fmt.Errorf("in-transit stock cannot be negative, got %g", p.InTransitM2)
	}
	if p.DailyVelocity < 0 {
		return fmt.Errorf("daily velocity cannot be negative, got %g", p.DailyVelocity)
	}
	if p.WeeksOfData < 0 {
		return fmt.Errorf("weeks of data cannot be negative, got %d", p.WeeksOfData)
	}
	if p.UniqueCustomers < 0 {
		return fmt.Errorf("unique customers cannot be negative, got %d", p.UniqueCustomers)
	}
	if p.RecurringCustomers < 0 || p.RecurringCustomers > p.UniqueCustomers {
		return fmt.Errorf("recurring customers (%d) must be between 0 and unique customers (%d)",
			p.RecurringCustomers, p.UniqueCustomers)
	}
	if p.TopCustomerShare != nil && (*p.TopCustomerShare < 0 || *p.TopCustomerShare > 1) {
		return fmt.Errorf("top customer share must be within [0,1], got %g", *p.TopCustomerShare)
	}
	return nil
}

// AvailableM2 returns warehouse plus in-transit stock
func (p *Product) AvailableM2() float64 {
	return p.WarehouseStockM2 + p.InTransitM2
}

// DaysUntilEmpty returns the projected days of cover. The second value is false
// when the product has no velocity and therefore never empties.
func (p *Product) DaysUntilEmpty() (float64, bool) {
	if p.DailyVelocity <= 0 {
		return 0, false
	}
	return p.AvailableM2() / p.DailyVelocity, true
}

// HasCustomerData reports whether customer statistics are present
func (p *Product) HasCustomerData() bool {
	return p.UniqueCustomers > 0
}
