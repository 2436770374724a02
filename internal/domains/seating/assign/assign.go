// Package assign picks physical tables for a party. It is a pure matching
// engine: callers load the candidate tables and persist whatever outcome the
// assigner returns.
package assign

import (
	"fmt"
	"sort"
	"strings"

	"maitred/internal/domains/table/model"
)

// Match quality labels, best to worst.
const (
	MatchPerfect    = "perfect"
	MatchGood       = "good"
	MatchAcceptable = "acceptable"
	MatchNone       = "none"

	// LocationMixed marks a combination that spans dining-room areas.
	LocationMixed = "mixed"
)

// sizeUpSlack is how many spare seats a single table may have and still
// count as a good match rather than a wasteful one.
const sizeUpSlack = 2

// Result is a table assignment outcome. Tables is empty when Success is
// false; Reason is always set.
type Result struct {
	Success       bool          `json:"success"`
	Tables        []model.Table `json:"tables"`
	Match         string        `json:"match"`
	Reason        string        `json:"reason"`
	TotalCapacity int           `json:"total_capacity,omitempty"`
	Location      string        `json:"location,omitempty"`
}

// Option is one ranked seating possibility for the host to choose from.
type Option struct {
	Tables        []model.Table `json:"tables"`
	TableNumbers  []string      `json:"tableNumbers"`
	TotalCapacity int           `json:"totalCapacity"`
	WasteSeats    int           `json:"wasteSeats"`
	Location      string        `json:"location"`
	Match         string        `json:"match"`
	Score         int           `json:"score"`
}

// Validation is the outcome of checking a host-picked set of tables.
type Validation struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	TotalCapacity int    `json:"totalCapacity,omitempty"`
}

// Assign finds the best table or combination for the party, trying
// strategies from tightest fit to loosest: exact capacity, a single table
// with at most two spare seats, a multi-table combination, then the
// smallest larger table. A preferred location narrows the candidates but
// never blocks seating: when it holds no candidates the whole floor is
// considered.
func Assign(partySize int, available []model.Table, preferredLocation string) Result {
	if len(available) == 0 {
		return Result{
			Success: false,
			Tables:  []model.Table{},
			Match:   MatchNone,
			Reason:  "No tables available",
		}
	}

	candidates := filterByLocation(available, preferredLocation)

	if exact := findExact(partySize, candidates); exact != nil {
		return Result{
			Success:       true,
			Tables:        []model.Table{*exact},
			Match:         MatchPerfect,
			Reason:        fmt.Sprintf("Perfect match: Table %s seats exactly %d guests", exact.Number, partySize),
			TotalCapacity: exact.Capacity,
			Location:      exact.Location,
		}
	}

	if sizeUp := findSizeUp(partySize, candidates, sizeUpSlack); sizeUp != nil {
		return Result{
			Success:       true,
			Tables:        []model.Table{*sizeUp},
			Match:         MatchGood,
			Reason:        fmt.Sprintf("Good match: Table %s seats %d (%d extra seats)", sizeUp.Number, sizeUp.Capacity, sizeUp.Capacity-partySize),
			TotalCapacity: sizeUp.Capacity,
			Location:      sizeUp.Location,
		}
	}

	if combination := findCombination(partySize, candidates); len(combination) > 0 {
		totalCapacity := 0
		numbers := make([]string, len(combination))

		for i, candidate := range combination {
			totalCapacity += candidate.Capacity
			numbers[i] = candidate.Number
		}

		return Result{
			Success:       true,
			Tables:        combination,
			Match:         MatchAcceptable,
			Reason:        fmt.Sprintf("Combining tables: %s (%d seats total)", strings.Join(numbers, " + "), totalCapacity),
			TotalCapacity: totalCapacity,
			Location:      combination[0].Location,
		}
	}

	if larger := findSmallestLarger(partySize, candidates); larger != nil {
		return Result{
			Success:       true,
			Tables:        []model.Table{*larger},
			Match:         MatchAcceptable,
			Reason:        fmt.Sprintf("Using larger table: %s seats %d (%d extra)", larger.Number, larger.Capacity, larger.Capacity-partySize),
			TotalCapacity: larger.Capacity,
			Location:      larger.Location,
		}
	}

	return Result{
		Success: false,
		Tables:  []model.Table{},
		Match:   MatchNone,
		Reason:  fmt.Sprintf("Cannot accommodate party of %d with available tables", partySize),
	}
}

// AllOptions lists every workable single table and two-table combination,
// ranked best first. Singles score 100 for a perfect fit, 90 within two
// spare seats, 70 beyond that. Pairs waste at most four seats and score 85,
// 75 or 65 depending on shared location and waste. Equal scores keep
// discovery order, which follows the caller's table ordering.
func AllOptions(partySize int, available []model.Table, preferredLocation string) []Option {
	candidates := activeOnly(filterByLocation(available, preferredLocation))

	options := []Option{}

	for _, candidate := range candidates {
		if candidate.Capacity < partySize {
			continue
		}

		waste := candidate.Capacity - partySize

		score := 70
		match := MatchAcceptable

		switch {
		case waste == 0:
			score, match = 100, MatchPerfect
		case waste <= sizeUpSlack:
			score, match = 90, MatchGood
		}

		options = append(options, Option{
			Tables:        []model.Table{candidate},
			TableNumbers:  []string{candidate.Number},
			TotalCapacity: candidate.Capacity,
			WasteSeats:    waste,
			Location:      candidate.Location,
			Match:         match,
			Score:         score,
		})
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			first := candidates[i]
			second := candidates[j]

			combined := first.Capacity + second.Capacity
			waste := combined - partySize

			if combined < partySize || waste > 4 {
				continue
			}

			sameLocation := first.Location == second.Location

			score := 65
			if sameLocation {
				score = 75
				if waste <= sizeUpSlack {
					score = 85
				}
			} else if waste <= sizeUpSlack {
				score = 75
			}

			match := MatchAcceptable
			if waste <= sizeUpSlack {
				match = MatchGood
			}

			location := LocationMixed
			if sameLocation {
				location = first.Location
			}

			options = append(options, Option{
				Tables:        []model.Table{first, second},
				TableNumbers:  []string{first.Number, second.Number},
				TotalCapacity: combined,
				WasteSeats:    waste,
				Location:      location,
				Match:         match,
				Score:         score,
			})
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	return options
}

// Validate checks a host-picked table set right before seating: every table
// must be active, every table must still be available, and together they
// must seat the party.
func Validate(tables []model.Table, partySize int) Validation {
	if len(tables) == 0 {
		return Validation{Valid: false, Reason: "No tables provided"}
	}

	var inactive []string
	for _, t := range tables {
		if !t.Active {
			inactive = append(inactive, t.Number)
		}
	}

	if len(inactive) > 0 {
		return Validation{Valid: false, Reason: fmt.Sprintf("Tables not active: %s", strings.Join(inactive, ", "))}
	}

	var unavailable []string
	for _, t := range tables {
		if t.Status != model.StatusAvailable {
			unavailable = append(unavailable, t.Number)
		}
	}

	if len(unavailable) > 0 {
		return Validation{Valid: false, Reason: fmt.Sprintf("Tables not available: %s", strings.Join(unavailable, ", "))}
	}

	totalCapacity := 0
	for _, t := range tables {
		totalCapacity += t.Capacity
	}

	if totalCapacity < partySize {
		return Validation{Valid: false, Reason: fmt.Sprintf("Insufficient capacity: %d seats for %d guests", totalCapacity, partySize)}
	}

	return Validation{Valid: true, TotalCapacity: totalCapacity}
}

// filterByLocation narrows to the preferred area, falling back to every
// candidate when the area has none.
func filterByLocation(tables []model.Table, preferredLocation string) []model.Table {
	if preferredLocation == "" {
		return tables
	}

	var filtered []model.Table
	for _, t := range tables {
		if t.Location == preferredLocation {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) == 0 {
		return tables
	}

	return filtered
}

func activeOnly(tables []model.Table) []model.Table {
	var active []model.Table
	for _, t := range tables {
		if t.Active {
			active = append(active, t)
		}
	}

	return active
}

func findExact(partySize int, tables []model.Table) *model.Table {
	for i := range tables {
		if tables[i].Capacity == partySize && tables[i].Active {
			return &tables[i]
		}
	}

	return nil
}

func findSizeUp(partySize int, tables []model.Table, maxExtra int) *model.Table {
	for i := range tables {
		if tables[i].Active && tables[i].Capacity > partySize && tables[i].Capacity <= partySize+maxExtra {
			return &tables[i]
		}
	}

	return nil
}

// findCombination joins tables greedily in caller order: first a pair in a
// shared location wasting at most two seats, then a same-location triple
// wasting at most three, finally any pair wasting at most four. The first
// hit wins; no search for the globally least wasteful set.
func findCombination(partySize int, tables []model.Table) []model.Table {
	candidates := activeOnly(tables)

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			combined := candidates[i].Capacity + candidates[j].Capacity

			if combined >= partySize && combined <= partySize+2 && candidates[i].Location == candidates[j].Location {
				return []model.Table{candidates[i], candidates[j]}
			}
		}
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			for k := j + 1; k < len(candidates); k++ {
				combined := candidates[i].Capacity + candidates[j].Capacity + candidates[k].Capacity

				if combined >= partySize && combined <= partySize+3 &&
					candidates[i].Location == candidates[j].Location &&
					candidates[j].Location == candidates[k].Location {
					return []model.Table{candidates[i], candidates[j], candidates[k]}
				}
			}
		}
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			combined := candidates[i].Capacity + candidates[j].Capacity

			if combined >= partySize && combined <= partySize+4 {
				return []model.Table{candidates[i], candidates[j]}
			}
		}
	}

	return nil
}

func findSmallestLarger(partySize int, tables []model.Table) *model.Table {
	var best *model.Table
	for i := range tables {
		if !tables[i].Active || tables[i].Capacity < partySize {
			continue
		}

		if best == nil || tables[i].Capacity < best.Capacity {
			best = &tables[i]
		}
	}

	return best
}
