package entities

import "time"

// WarehouseReading is the measured pallet occupancy of the destination warehouse
type WarehouseReading struct {
	CurrentPallets int
	RecordedAt     time.Time
}
