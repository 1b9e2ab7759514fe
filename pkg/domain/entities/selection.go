package entities

// Selection is the planner's mutable choice for one product.
// IsSelected == (SelectedPallets > 0) holds for every value built through NewSelection.
type Selection struct {
	IsSelected      bool
	SelectedPallets int
}

// NewSelection builds a selection from a pallet count, negative counts become zero
func NewSelection(pallets int) Selection {
	if pallets < 0 {
		pallets = 0
	}
	return Selection{
		IsSelected:      pallets > 0,
		SelectedPallets: pallets,
	}
}

// OrderSummary is derived from the full selection set; it has no lifecycle of its own
type OrderSummary struct {
	TotalPallets    int     `json:"total_pallets"`
	TotalContainers int     `json:"total_containers"`
	TotalM2         float64 `json:"total_m2"`

	BoatMaxContainers       int `json:"boat_max_containers"`
	BoatRemainingContainers int `json:"boat_remaining_containers"`

	WarehouseCurrentPallets   int     `json:"warehouse_current_pallets"`
	WarehouseCapacity         int     `json:"warehouse_capacity"`
	WarehouseAfterDelivery    int     `json:"warehouse_after_delivery"`
	WarehouseUtilizationAfter float64 `json:"warehouse_utilization_after"`
}

// ExceedsWarehouse reports whether the delivery would overflow the warehouse
func (s OrderSummary) ExceedsWarehouse() bool {
	return s.WarehouseAfterDelivery > s.WarehouseCapacity
}

// ExceedsBoat reports whether the selection needs more containers than the boat carries
func (s OrderSummary) ExceedsBoat() bool {
	return s.TotalContainers > s.BoatMaxContainers
}
