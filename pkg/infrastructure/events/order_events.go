package events

import (
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

const (
	OrderInitializedEvent          = "order.initialized"
	OrderInitializeSupersededEvent = "order.initialize_superseded"
	OrderInitializeFailedEvent     = "order.initialize_failed"

	SelectionToggledEvent     = "selection.toggled"
	SelectionQuantitySetEvent = "selection.quantity_set"
	SelectionDiscardedEvent   = "selection.discarded"

	OrderExportedEvent = "order.exported"
)

type OrderInitialized struct {
	BoatID       entities.BoatID `json:"boat_id"`
	Mode         string          `json:"mode"`
	Products     int             `json:"products"`
	TotalPallets int             `json:"total_pallets"`
	Reset        bool            `json:"reset"`
}

type OrderInitializeSuperseded struct {
	BoatID     entities.BoatID `json:"boat_id"`
	Mode       string          `json:"mode"`
	Generation uint64          `json:"generation"`
}

type OrderInitializeFailed struct {
	BoatID entities.BoatID `json:"boat_id"`
	Mode   string          `json:"mode"`
	Error  string          `json:"error"`
}

type SelectionToggled struct {
	ProductID entities.ProductID `json:"product_id"`
	Selected  bool               `json:"selected"`
	Pallets   int                `json:"pallets"`
}

type SelectionQuantitySet struct {
	ProductID entities.ProductID `json:"product_id"`
	Requested int                `json:"requested"`
	Pallets   int                `json:"pallets"`
}

type SelectionDiscarded struct {
	ProductID entities.ProductID `json:"product_id"`
	Operation string             `json:"operation"`
}

type OrderExported struct {
	BoatID       entities.BoatID `json:"boat_id"`
	TotalPallets int             `json:"total_pallets"`
	Bytes        int             `json:"bytes"`
}
