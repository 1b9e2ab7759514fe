package entities

// AlertType is the severity of an order builder alert
type AlertType int

const (
	AlertBlocked AlertType = iota
	AlertWarning
	AlertSuggestion
)

// String method for AlertType enum
func (t AlertType) String() string {
	switch t {
	case AlertBlocked:
		return "blocked"
	case AlertWarning:
		return "warning"
	case AlertSuggestion:
		return "suggestion"
	default:
		return "unknown"
	}
}

// Rank orders alert types: blocked before warning before suggestion
func (t AlertType) Rank() int {
	return int(t)
}

// MarshalText renders the type label in JSON output
func (t AlertType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AlertCode identifies which rule produced an alert
type AlertCode string

const (
	AlertWarehouseExceeded AlertCode = "warehouse_exceeded"
	AlertWarehouseNearFull AlertCode = "warehouse_near_full"
	AlertBoatExceeded      AlertCode = "boat_exceeded"
	AlertRoomForMore       AlertCode = "room_for_more"
	AlertStockoutRisk      AlertCode = "stockout_risk"
	AlertLowConfidence     AlertCode = "low_confidence"
	AlertDeadlineImminent  AlertCode = "deadline_imminent"
)

// Alert is a human-readable warning, block or suggestion about the current order
type Alert struct {
	Type       AlertType `json:"type"`
	Code       AlertCode `json:"code"`
	Icon       string    `json:"icon"`
	ProductID  ProductID `json:"product_id,omitempty"`
	ProductSKU string    `json:"product_sku,omitempty"`
	Message    string    `json:"message"`
}
