package dto

import (
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// OrderBuilderView is the render-ready state of a planning session
type OrderBuilderView struct {
	Boat        BoatView              `json:"boat"`
	NextBoat    *BoatView             `json:"next_boat,omitempty"`
	Mode        string                `json:"mode"`
	Groups      []PriorityGroup       `json:"groups"`
	Summary     entities.OrderSummary `json:"summary"`
	Alerts      []entities.Alert      `json:"alerts"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// BoatView carries boat dates and the derived day counts relative to the view time
type BoatView struct {
	ID                 entities.BoatID `json:"id"`
	Name               string          `json:"name"`
	DepartureDate      string          `json:"departure_date"`
	ArrivalDate        string          `json:"arrival_date"`
	BookingDeadline    string          `json:"booking_deadline"`
	MaxContainers      int             `json:"max_containers"`
	DaysUntilDeparture int             `json:"days_until_departure"`
	DaysUntilDeadline  int             `json:"days_until_deadline"`
	DaysUntilArrival   int             `json:"days_until_arrival"`
}

// PriorityGroup is one display section of products sharing a priority
type PriorityGroup struct {
	Priority string        `json:"priority"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Products []ProductLine `json:"products"`
}

// ProductLine is a product row with its recommendation and current selection
type ProductLine struct {
	ProductID          entities.ProductID `json:"product_id"`
	SKU                string             `json:"sku"`
	Description        string             `json:"description,omitempty"`
	WarehouseM2        float64            `json:"warehouse_m2"`
	InTransitM2        float64            `json:"in_transit_m2"`
	DailyVelocity      float64            `json:"daily_velocity"`
	DaysToCover        int                `json:"days_to_cover"`
	CoverageGapM2      float64            `json:"coverage_gap_m2"`
	CoverageGapPallets int                `json:"coverage_gap_pallets"`
	Confidence         string             `json:"confidence"`
	ConfidenceReason   string             `json:"confidence_reason,omitempty"`
	Priority           string             `json:"priority"`
	PriorityReason     string             `json:"priority_reason,omitempty"`
	IsSelected         bool               `json:"is_selected"`
	SelectedPallets    int                `json:"selected_pallets"`
	SelectedM2         float64            `json:"selected_m2"`
}

// NewBoatView builds a boat view with day counts relative to now
func NewBoatView(b entities.Boat, now time.Time) BoatView {
	return BoatView{
		ID:                 b.ID,
		Name:               b.Name,
		DepartureDate:      b.DepartureDate.Format(entities.DateLayout),
		ArrivalDate:        b.ArrivalDate.Format(entities.DateLayout),
		BookingDeadline:    b.BookingDeadline.Format(entities.DateLayout),
		MaxContainers:      b.MaxContainers,
		DaysUntilDeparture: b.DaysUntilDeparture(now),
		DaysUntilDeadline:  b.DaysUntilDeadline(now),
		DaysUntilArrival:   b.DaysUntilArrival(now),
	}
}
