package entities

import (
	"fmt"
	"math"
	"time"
)

// BoatID represents a unique boat schedule identifier
type BoatID string

// BoatStatus represents the booking state of a scheduled boat
type BoatStatus int

const (
	BoatAvailable BoatStatus = iota
	BoatBooked
	BoatDeparted
	BoatArrived
)

// String method for BoatStatus enum
func (s BoatStatus) String() string {
	switch s {
	case BoatAvailable:
		return "available"
	case BoatBooked:
		return "booked"
	case BoatDeparted:
		return "departed"
	case BoatArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// ParseBoatStatus parses a boat status label
func ParseBoatStatus(s string) (BoatStatus, error) {
	switch normalizeLabel(s) {
	case "available", "":
		return BoatAvailable, nil
	case "booked":
		return BoatBooked, nil
	case "departed":
		return BoatDeparted, nil
	case "arrived":
		return BoatArrived, nil
	default:
		return BoatAvailable, fmt.Errorf("invalid boat status: %s (expected: available, booked, departed, or arrived)", s)
	}
}

// Boat represents a scheduled vessel with its container capacity
type Boat struct {
	ID              BoatID
	Name            string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	BookingDeadline time.Time
	MaxContainers   int
	Status          BoatStatus
	OriginPort      string
	DestinationPort string
}

// NewBoat creates a validated Boat
func NewBoat(id BoatID, name string, departure, arrival, deadline time.Time, maxContainers int) (*Boat, error) {
	b := &Boat{
		ID:              id,
		Name:            name,
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		BookingDeadline: deadline,
		MaxContainers:   maxContainers,
		Status:          BoatAvailable,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the schedule invariants
func (b *Boat) Validate() error {
	if string(b.ID) == "" {
		return fmt.Errorf("boat id cannot be empty")
	}
	if b.ArrivalDate.Before(b.DepartureDate) {
		return fmt.Errorf("arrival date %s cannot be before departure date %s",
			b.ArrivalDate.Format(DateLayout), b.DepartureDate.Format(DateLayout))
	}
	if b.BookingDeadline.After(b.DepartureDate) {
		return fmt.Errorf("booking deadline %s cannot be after departure date %s",
			b.BookingDeadline.Format(DateLayout), b.DepartureDate.Format(DateLayout))
	}
	if b.MaxContainers <= 0 {
		return fmt.Errorf("max containers must be positive, got %d", b.MaxContainers)
	}
	return nil
}

// DaysUntilDeparture returns calendar days from now until departure (negative once departed)
func (b *Boat) DaysUntilDeparture(now time.Time) int {
	return DaysBetween(now, b.DepartureDate)
}

// DaysUntilDeadline returns calendar days from now until the booking deadline
func (b *Boat) DaysUntilDeadline(now time.Time) int {
	return DaysBetween(now, b.BookingDeadline)
}

// DaysUntilArrival returns calendar days from now until arrival
func (b *Boat) DaysUntilArrival(now time.Time) int {
	return DaysBetween(now, b.ArrivalDate)
}

// TransitDays returns the days spent at sea
func (b *Boat) TransitDays() int {
	return DaysBetween(b.DepartureDate, b.ArrivalDate)
}

// DateLayout is the calendar date format used across inputs and exports
const DateLayout = "2006-01-02"

// DaysBetween returns the number of calendar days from one date to another,
// ignoring the time of day. The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24))
}
