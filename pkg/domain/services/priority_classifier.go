package services

import (
	"fmt"
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// BoatHorizon holds the days until the next two applicable boats arrive
type BoatHorizon struct {
	NextArrivalDays   int
	SecondArrivalDays int
	HasNext           bool
	HasSecond         bool
}

// HorizonFromBoats builds a horizon from the next and second boats; either may be nil
func HorizonFromBoats(next, second *entities.Boat, now time.Time) BoatHorizon {
	var h BoatHorizon
	if next != nil {
		h.NextArrivalDays = next.DaysUntilArrival(now)
		h.HasNext = true
	}
	if second != nil {
		h.SecondArrivalDays = second.DaysUntilArrival(now)
		h.HasSecond = true
	}
	return h
}

// PriorityClassifier buckets products by when they run out relative to upcoming boats
type PriorityClassifier struct{}

// NewPriorityClassifier creates a new priority classifier
func NewPriorityClassifier() *PriorityClassifier {
	return &PriorityClassifier{}
}

// Classify returns the product's bucket and a short reason.
// A product running out exactly when the next boat arrives is HIGH_PRIORITY.
func (c *PriorityClassifier) Classify(p *entities.Product, h BoatHorizon) (entities.Priority, string) {
	daysUntilEmpty, finite := p.DaysUntilEmpty()
	if !finite {
		return entities.PriorityYourCall, "no sales velocity - needs manual review"
	}
	if !p.HasCustomerData() {
		return entities.PriorityYourCall, "no customer data - needs manual review"
	}
	if !h.HasNext {
		return entities.PriorityYourCall, "no upcoming boat to plan against"
	}

	if daysUntilEmpty <= float64(h.NextArrivalDays) {
		return entities.PriorityHigh, fmt.Sprintf(
			"stocks out in %.0f days, before next boat arrives in %d days", daysUntilEmpty, h.NextArrivalDays)
	}
	if h.HasSecond && daysUntilEmpty <= float64(h.SecondArrivalDays) {
		return entities.PriorityConsider, fmt.Sprintf(
			"stocks out in %.0f days, before second boat arrives in %d days", daysUntilEmpty, h.SecondArrivalDays)
	}
	return entities.PriorityWellCovered, fmt.Sprintf("covered for %.0f days", daysUntilEmpty)
}
