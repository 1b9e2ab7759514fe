package services

import (
	"sort"
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// UpcomingBoats returns boats that have not departed yet, soonest departure first.
// Ties on departure are broken by boat id so the order is stable.
func UpcomingBoats(boats []*entities.Boat, now time.Time) []*entities.Boat {
	upcoming := make([]*entities.Boat, 0, len(boats))
	for _, b := range boats {
		if b == nil || b.DaysUntilDeparture(now) < 0 {
			continue
		}
		if b.Status == entities.BoatDeparted || b.Status == entities.BoatArrived {
			continue
		}
		upcoming = append(upcoming, b)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].DepartureDate.Equal(upcoming[j].DepartureDate) {
			return upcoming[i].DepartureDate.Before(upcoming[j].DepartureDate)
		}
		return upcoming[i].ID < upcoming[j].ID
	})
	return upcoming
}

// SelectUpcoming returns the soonest two applicable boats; either may be nil
func SelectUpcoming(boats []*entities.Boat, now time.Time) (next, second *entities.Boat) {
	upcoming := UpcomingBoats(boats, now)
	if len(upcoming) > 0 {
		next = upcoming[0]
	}
	if len(upcoming) > 1 {
		second = upcoming[1]
	}
	return next, second
}

// FollowingBoat returns the first upcoming boat departing after the target, or nil
func FollowingBoat(boats []*entities.Boat, target *entities.Boat, now time.Time) *entities.Boat {
	upcoming := UpcomingBoats(boats, now)
	for i, b := range upcoming {
		if b.ID == target.ID && i+1 < len(upcoming) {
			return upcoming[i+1]
		}
	}
	for _, b := range upcoming {
		if b.DepartureDate.After(target.DepartureDate) {
			return b
		}
	}
	return nil
}
