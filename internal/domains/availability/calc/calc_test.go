package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiningDuration(t *testing.T) {
	tests := []struct {
		name      string
		partySize int
		expected  int
	}{
		{name: "solo diner", partySize: 1, expected: 90},
		{name: "couple", partySize: 2, expected: 90},
		{name: "three guests", partySize: 3, expected: 120},
		{name: "four guests", partySize: 4, expected: 120},
		{name: "five guests", partySize: 5, expected: 120},
		{name: "six guests", partySize: 6, expected: 120},
		{name: "seven guests", partySize: 7, expected: 150},
		{name: "banquet", partySize: 20, expected: 150},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, DiningDuration(test.partySize))
		})
	}
}

func TestSeatingDuration(t *testing.T) {
	tests := []struct {
		name      string
		partySize int
		expected  int
	}{
		{name: "couple", partySize: 2, expected: 90},
		{name: "four guests", partySize: 4, expected: 120},
		{name: "five guests", partySize: 5, expected: 135},
		{name: "six guests", partySize: 6, expected: 135},
		{name: "seven guests", partySize: 7, expected: 150},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, SeatingDuration(test.partySize))
		})
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		name     string
		clock    string
		minutes  int
		expected string
	}{
		{name: "plain addition", clock: "18:00", minutes: 90, expected: "19:30"},
		{name: "zero minutes", clock: "18:00", minutes: 0, expected: "18:00"},
		{name: "wraps past midnight", clock: "23:30", minutes: 90, expected: "01:00"},
		{name: "lands exactly on midnight", clock: "22:30", minutes: 90, expected: "00:00"},
		{name: "negative offset", clock: "18:00", minutes: -30, expected: "17:30"},
		{name: "negative wraps before midnight", clock: "00:30", minutes: -60, expected: "23:30"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, AddMinutes(test.clock, test.minutes))
		})
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name     string
		start1   string
		end1     string
		start2   string
		end2     string
		expected bool
	}{
		{name: "clear overlap", start1: "18:00", end1: "20:00", start2: "19:00", end2: "21:00", expected: true},
		{name: "containment", start1: "18:00", end1: "22:00", start2: "19:00", end2: "20:00", expected: true},
		{name: "disjoint", start1: "17:00", end1: "18:00", start2: "20:00", end2: "21:00", expected: false},
		{name: "back to back is not overlap", start1: "18:00", end1: "20:00", start2: "20:00", end2: "21:30", expected: false},
		{name: "one minute of overlap", start1: "18:00", end1: "20:01", start2: "20:00", end2: "21:30", expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, RangesOverlap(test.start1, test.end1, test.start2, test.end2))

			// Overlap is symmetric in its two windows.
			assert.Equal(t, test.expected, RangesOverlap(test.start2, test.end2, test.start1, test.end1))
		})
	}
}

func TestOccupiedSeatsAt(t *testing.T) {
	reservations := []Reservation{
		{Time: "18:00", PartySize: 4}, // dines until 20:00
		{Time: "18:30", PartySize: 2}, // dines until 20:00
		{Time: "20:00", PartySize: 6}, // dines until 22:00
	}

	tests := []struct {
		name      string
		checkTime string
		expected  int
	}{
		{name: "before service", checkTime: "17:00", expected: 0},
		{name: "first party only", checkTime: "18:15", expected: 4},
		{name: "both early parties", checkTime: "19:00", expected: 6},
		{name: "turnover boundary counts only the new party", checkTime: "20:00", expected: 6},
		{name: "late party only", checkTime: "21:00", expected: 6},
		{name: "after close", checkTime: "22:30", expected: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, OccupiedSeatsAt(reservations, test.checkTime))
		})
	}
}

func TestCheckSlot(t *testing.T) {
	t.Run("empty restaurant accepts the party", func(t *testing.T) {
		verdict := CheckSlot("18:00", 4, nil, 50)

		assert.True(t, verdict.Available)
		assert.Equal(t, "Time slot is available", verdict.Reason)
		assert.Equal(t, 0, verdict.OccupiedSeats)
		assert.Equal(t, 50, verdict.AvailableSeats)
		assert.Equal(t, 120, verdict.EstimatedDuration)
	})

	t.Run("rejects when a sampled moment would exceed capacity", func(t *testing.T) {
		// 46 seats are taken from 19:00 to 21:00. A party of 5 at 18:00
		// dines until 20:00 and collides with that window.
		reservations := []Reservation{{Time: "19:00", PartySize: 46}}

		verdict := CheckSlot("18:00", 5, reservations, 50)

		assert.False(t, verdict.Available)
		assert.Contains(t, verdict.Reason, "19:00")
		assert.Equal(t, 46, verdict.OccupiedSeats)
		assert.Equal(t, 4, verdict.AvailableSeats)
		assert.Equal(t, 5, verdict.WouldNeedSeats)
	})

	t.Run("accepts a party that finishes before the rush", func(t *testing.T) {
		// Dining window 17:00-18:30. The 18:30 surge of 48 lands on the
		// final sample and still fits together with this party of 2.
		reservations := []Reservation{{Time: "18:30", PartySize: 48}}

		verdict := CheckSlot("17:00", 2, reservations, 50)

		assert.True(t, verdict.Available)
		assert.Equal(t, 48, verdict.OccupiedSeats)
		assert.Equal(t, 2, verdict.AvailableSeats)
	})

	t.Run("exact capacity fill is still available", func(t *testing.T) {
		reservations := []Reservation{{Time: "18:00", PartySize: 44}}

		verdict := CheckSlot("18:00", 6, reservations, 50)

		assert.True(t, verdict.Available)
		assert.Equal(t, 44, verdict.OccupiedSeats)
		assert.Equal(t, 6, verdict.AvailableSeats)
	})

	t.Run("one seat over capacity fails", func(t *testing.T) {
		reservations := []Reservation{{Time: "18:00", PartySize: 45}}

		verdict := CheckSlot("18:00", 6, reservations, 50)

		assert.False(t, verdict.Available)
		assert.Equal(t, 45, verdict.OccupiedSeats)
	})

	t.Run("samples cover both window endpoints", func(t *testing.T) {
		// The blocking party arrives exactly when the 90-minute window
		// ends. Rejection proves the final endpoint is sampled too.
		reservations := []Reservation{{Time: "19:30", PartySize: 50}}

		verdict := CheckSlot("18:00", 2, reservations, 50)

		assert.False(t, verdict.Available)
	})

	t.Run("is idempotent for the same inputs", func(t *testing.T) {
		reservations := []Reservation{
			{Time: "18:00", PartySize: 10},
			{Time: "19:00", PartySize: 20},
		}

		first := CheckSlot("18:30", 4, reservations, 50)
		second := CheckSlot("18:30", 4, reservations, 50)

		assert.Equal(t, first, second)
	})
}

func TestSuggestTimes(t *testing.T) {
	t.Run("closest alternatives first with earlier winning ties", func(t *testing.T) {
		suggestions := SuggestTimes("19:00", 4, nil, 50, "17:00", "22:00")

		require.Len(t, suggestions, 3)
		assert.Equal(t, "18:30", suggestions[0].Time)
		assert.Equal(t, "19:30", suggestions[1].Time)
		assert.Equal(t, "18:00", suggestions[2].Time)
	})

	t.Run("earlier slots before opening are excluded", func(t *testing.T) {
		suggestions := SuggestTimes("17:30", 4, nil, 50, "17:00", "22:00")

		for _, suggestion := range suggestions {
			assert.GreaterOrEqual(t, suggestion.Time, "17:00")
		}
	})

	t.Run("later slots must finish by closing", func(t *testing.T) {
		// Party of 4 dines 120 minutes; 20:00 is the last start that
		// finishes by 22:00.
		suggestions := SuggestTimes("20:00", 4, nil, 50, "17:00", "22:00")

		for _, suggestion := range suggestions {
			assert.LessOrEqual(t, AddMinutes(suggestion.Time, 120), "22:00")
		}
	})

	t.Run("skips full slots", func(t *testing.T) {
		// Everything from 18:00 to 20:00 is packed solid.
		reservations := []Reservation{{Time: "18:00", PartySize: 50}}

		suggestions := SuggestTimes("19:00", 4, reservations, 50, "17:00", "23:59")

		for _, suggestion := range suggestions {
			verdict := CheckSlot(suggestion.Time, 4, reservations, 50)
			assert.True(t, verdict.Available)
		}
	})

	t.Run("fully booked evening yields no suggestions", func(t *testing.T) {
		reservations := []Reservation{
			{Time: "17:00", PartySize: 50},
			{Time: "18:30", PartySize: 50},
			{Time: "20:00", PartySize: 50},
			{Time: "21:30", PartySize: 50},
		}

		suggestions := SuggestTimes("19:00", 4, reservations, 50, "17:00", "22:00")

		assert.Empty(t, suggestions)
	})
}
