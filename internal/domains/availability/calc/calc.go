// Package calc answers whether a party fits into the restaurant at a given
// time. It reasons over wall-clock HH:MM strings for a single service date:
// projected dining windows are half-open intervals, occupancy is sampled at
// fixed intervals, and every outcome is a plain value, never an error.
package calc

import (
	"fmt"
	"sort"
	"time"
)

const (
	// sampleInterval is the occupancy sampling granularity. Tables rarely
	// turn over at sub-15-minute precision, so a brief spike strictly
	// between two samples is an accepted miss.
	sampleInterval = 15

	// suggestionStep and suggestionProbes bound the alternative-slot
	// search to four 30-minute steps on either side of the request.
	suggestionStep   = 30
	suggestionProbes = 4

	maxSuggestions = 3

	clockLayout = "15:04"
)

// Reservation is the read-only slice of an existing booking the calculator
// needs: when the party starts and how many seats it holds.
type Reservation struct {
	Time      string
	PartySize int
}

// Verdict reports whether a slot can take the party. OccupiedSeats carries
// the occupancy at the failing sample on rejection, or the busiest sampled
// moment on success.
type Verdict struct {
	Available         bool   `json:"available"`
	Reason            string `json:"reason"`
	OccupiedSeats     int    `json:"occupiedSeats"`
	AvailableSeats    int    `json:"availableSeats"`
	WouldNeedSeats    int    `json:"wouldNeedSeats,omitempty"`
	EstimatedDuration int    `json:"estimatedDuration,omitempty"`
}

// Suggestion is an alternative slot offered when the requested one is full.
type Suggestion struct {
	Time           string `json:"time"`
	AvailableSeats int    `json:"availableSeats"`
}

// DiningDuration returns the projected dining window length in minutes used
// by availability checks. Party sizes are uncapped; anything above six
// resolves to the large-group tier.
func DiningDuration(partySize int) int {
	switch {
	case partySize <= 2:
		return 90
	case partySize <= 4:
		return 120
	case partySize <= 6:
		return 120
	default:
		return 150
	}
}

// SeatingDuration is the turn-time policy used when a party is actually
// seated. It differs from DiningDuration only for 5-6 guests (135 minutes).
// The two tables are kept separate on purpose: availability projections and
// service records were tuned independently and must not drift together
// silently.
func SeatingDuration(partySize int) int {
	switch {
	case partySize <= 2:
		return 90
	case partySize <= 4:
		return 120
	case partySize <= 6:
		return 135
	default:
		return 150
	}
}

// AddMinutes adds signed minutes to an HH:MM wall-clock value, wrapping at
// midnight. The result is time-of-day only: a window that crosses midnight
// does not encode "next day", since the calculator reasons about a single
// service date.
func AddMinutes(clock string, minutes int) string {
	parsed, err := time.Parse(clockLayout, clock)
	if err != nil {
		return clock
	}

	// Anchor on a fixed reference day so wraparound stays correct.
	anchored := time.Date(2000, time.January, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)

	return anchored.Add(time.Duration(minutes) * time.Minute).Format(clockLayout)
}

// RangesOverlap reports whether two half-open [start, end) windows overlap.
// Back-to-back windows do not: a table freed at 20:00 can be re-seated at
// exactly 20:00.
func RangesOverlap(start1, end1, start2, end2 string) bool {
	s1 := toMinutes(start1)
	e1 := toMinutes(end1)
	s2 := toMinutes(start2)
	e2 := toMinutes(end2)

	return s1 < e2 && s2 < e1
}

// OccupiedSeatsAt sums the party sizes of every reservation whose projected
// dining window covers checkTime. The probe is a one-minute interval so the
// boundary semantics match RangesOverlap. This counts seats, not tables;
// reconciling reservations onto physical tables is the assigner's concern.
func OccupiedSeatsAt(reservations []Reservation, checkTime string) int {
	occupied := 0
	probeEnd := AddMinutes(checkTime, 1)

	for _, reservation := range reservations {
		endTime := AddMinutes(reservation.Time, DiningDuration(reservation.PartySize))

		if RangesOverlap(reservation.Time, endTime, checkTime, probeEnd) {
			occupied += reservation.PartySize
		}
	}

	return occupied
}

// CheckSlot decides whether a party of the given size can start at
// requestedTime without the restaurant exceeding capacity at any sampled
// instant of the projected dining window. Both window endpoints are sampled.
func CheckSlot(requestedTime string, partySize int, reservations []Reservation, capacity int) Verdict {
	duration := DiningDuration(partySize)
	samples := (duration + sampleInterval - 1) / sampleInterval

	maxOccupied := 0
	busiestTime := requestedTime

	for i := 0; i <= samples; i++ {
		checkTime := AddMinutes(requestedTime, i*sampleInterval)
		occupied := OccupiedSeatsAt(reservations, checkTime)

		if occupied > maxOccupied {
			maxOccupied = occupied
			busiestTime = checkTime
		}

		if occupied+partySize > capacity {
			return Verdict{
				Available:      false,
				Reason:         fmt.Sprintf("Restaurant will be at capacity around %s", busiestTime),
				OccupiedSeats:  occupied,
				AvailableSeats: capacity - occupied,
				WouldNeedSeats: partySize,
			}
		}
	}

	return Verdict{
		Available:         true,
		Reason:            "Time slot is available",
		OccupiedSeats:     maxOccupied,
		AvailableSeats:    capacity - maxOccupied,
		EstimatedDuration: duration,
	}
}

// SuggestTimes probes up to four 30-minute steps before and after the
// requested time and returns at most three open slots, closest first.
// Earlier slots must start at or after openTime; later slots must finish by
// closeTime. Ties keep probe order, so the earlier alternative wins.
func SuggestTimes(requestedTime string, partySize int, reservations []Reservation, capacity int, openTime, closeTime string) []Suggestion {
	suggestions := []Suggestion{}

	for i := 1; i <= suggestionProbes; i++ {
		checkTime := AddMinutes(requestedTime, -i*suggestionStep)
		verdict := CheckSlot(checkTime, partySize, reservations, capacity)

		if verdict.Available && checkTime >= openTime {
			suggestions = append(suggestions, Suggestion{
				Time:           checkTime,
				AvailableSeats: verdict.AvailableSeats,
			})
		}
	}

	for i := 1; i <= suggestionProbes; i++ {
		checkTime := AddMinutes(requestedTime, i*suggestionStep)
		endTime := AddMinutes(checkTime, DiningDuration(partySize))
		verdict := CheckSlot(checkTime, partySize, reservations, capacity)

		if verdict.Available && endTime <= closeTime {
			suggestions = append(suggestions, Suggestion{
				Time:           checkTime,
				AvailableSeats: verdict.AvailableSeats,
			})
		}
	}

	requested := toMinutes(requestedTime)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return abs(toMinutes(suggestions[i].Time)-requested) < abs(toMinutes(suggestions[j].Time)-requested)
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

func toMinutes(clock string) int {
	parsed, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0
	}

	return parsed.Hour()*60 + parsed.Minute()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
