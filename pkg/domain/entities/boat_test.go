package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBoat_Validation(t *testing.T) {
	b, err := NewBoat("B1", "MSC Aurora", day("2026-03-10"), day("2026-04-05"), day("2026-03-05"), 4)
	require.NoError(t, err)
	assert.Equal(t, BoatAvailable, b.Status)
	assert.Equal(t, 26, b.TransitDays())

	testCases := []struct {
		name        string
		id          BoatID
		departure   string
		arrival     string
		deadline    string
		max         int
		expectError string
	}{
		{"empty id", "", "2026-03-10", "2026-04-05", "2026-03-05", 4, "boat id cannot be empty"},
		{
			"arrival before departure", "B1", "2026-03-10", "2026-03-01", "2026-03-05", 4,
			"arrival date 2026-03-01 cannot be before departure date 2026-03-10",
		},
		{
			"deadline after departure", "B1", "2026-03-10", "2026-04-05", "2026-03-11", 4,
			"booking deadline 2026-03-11 cannot be after departure date 2026-03-10",
		},
		{"zero capacity", "B1", "2026-03-10", "2026-04-05", "2026-03-05", 0, "max containers must be positive, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoat(tc.id, "name", day(tc.departure), day(tc.arrival), day(tc.deadline), tc.max)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestBoat_DaysUntil(t *testing.T) {
	b, err := NewBoat("B1", "MSC Aurora", day("2026-03-10"), day("2026-04-05"), day("2026-03-05"), 4)
	require.NoError(t, err)

	// time of day is ignored
	now := time.Date(2026, 3, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 7, b.DaysUntilDeparture(now))
	assert.Equal(t, 2, b.DaysUntilDeadline(now))
	assert.Equal(t, 33, b.DaysUntilArrival(now))

	after := day("2026-03-12")
	assert.Equal(t, -2, b.DaysUntilDeparture(after))
}

func TestParseBoatStatus(t *testing.T) {
	for _, s := range []BoatStatus{BoatAvailable, BoatBooked, BoatDeparted, BoatArrived} {
		parsed, err := ParseBoatStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseBoatStatus("")
	require.NoError(t, err)
	assert.Equal(t, BoatAvailable, parsed)

	_, err = ParseBoatStatus("sunk")
	assert.Error(t, err)
}
