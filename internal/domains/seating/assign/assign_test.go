package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/domains/table/model"
)

func table(number string, capacity int, location string) model.Table {
	return model.Table{
		ID:       "table-" + number,
		Number:   number,
		Capacity: capacity,
		Location: location,
		Status:   model.StatusAvailable,
		Active:   true,
	}
}

func TestAssign(t *testing.T) {
	t.Run("no tables at all", func(t *testing.T) {
		result := Assign(4, nil, "")

		assert.False(t, result.Success)
		assert.Equal(t, MatchNone, result.Match)
		assert.Equal(t, "No tables available", result.Reason)
		assert.Empty(t, result.Tables)
	})

	t.Run("exact capacity wins over a roomier table", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 6, "main"),
			table("T2", 4, "main"),
		}

		result := Assign(4, tables, "")

		require.True(t, result.Success)
		assert.Equal(t, MatchPerfect, result.Match)
		require.Len(t, result.Tables, 1)
		assert.Equal(t, "T2", result.Tables[0].Number)
		assert.Equal(t, 4, result.TotalCapacity)
		assert.Equal(t, "main", result.Location)
	})

	t.Run("size up within two spare seats", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 2, "main"),
			table("T2", 5, "patio"),
		}

		result := Assign(4, tables, "")

		require.True(t, result.Success)
		assert.Equal(t, MatchGood, result.Match)
		require.Len(t, result.Tables, 1)
		assert.Equal(t, "T2", result.Tables[0].Number)
	})

	t.Run("combines two same-location tables for a large party", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "main"),
			table("T3", 4, "patio"),
		}

		result := Assign(8, tables, "")

		require.True(t, result.Success)
		assert.Equal(t, MatchAcceptable, result.Match)
		require.Len(t, result.Tables, 2)
		assert.Equal(t, "T1", result.Tables[0].Number)
		assert.Equal(t, "T2", result.Tables[1].Number)
		assert.Equal(t, 8, result.TotalCapacity)
	})

	t.Run("tight same-location pair beats a cross-location one", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "patio"),
			table("T3", 4, "patio"),
		}

		result := Assign(8, tables, "")

		require.True(t, result.Success)
		require.Len(t, result.Tables, 2)
		assert.Equal(t, "T2", result.Tables[0].Number)
		assert.Equal(t, "T3", result.Tables[1].Number)
	})

	t.Run("three tables for a banquet", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "main"),
			table("T3", 4, "main"),
		}

		result := Assign(12, tables, "")

		require.True(t, result.Success)
		require.Len(t, result.Tables, 3)
		assert.Equal(t, 12, result.TotalCapacity)
	})

	t.Run("cross-location pair as last combination resort", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "patio"),
		}

		result := Assign(8, tables, "")

		require.True(t, result.Success)
		assert.Equal(t, MatchAcceptable, result.Match)
		require.Len(t, result.Tables, 2)
	})

	t.Run("falls back to the smallest larger table", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 10, "main"),
			table("T2", 8, "main"),
		}

		result := Assign(3, tables, "")

		require.True(t, result.Success)
		assert.Equal(t, MatchAcceptable, result.Match)
		require.Len(t, result.Tables, 1)
		assert.Equal(t, "T2", result.Tables[0].Number)
	})

	t.Run("party too large for the floor", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 2, "main"),
			table("T2", 2, "main"),
		}

		result := Assign(20, tables, "")

		assert.False(t, result.Success)
		assert.Equal(t, MatchNone, result.Match)
		assert.Contains(t, result.Reason, "20")
	})

	t.Run("preferred location narrows candidates", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "patio"),
		}

		result := Assign(4, tables, "patio")

		require.True(t, result.Success)
		assert.Equal(t, "T2", result.Tables[0].Number)
	})

	t.Run("empty preferred location falls back to the whole floor", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
		}

		result := Assign(4, tables, "rooftop")

		require.True(t, result.Success)
		assert.Equal(t, "T1", result.Tables[0].Number)
	})

	t.Run("inactive tables are never assigned", func(t *testing.T) {
		inactive := table("T1", 4, "main")
		inactive.Active = false

		result := Assign(4, []model.Table{inactive}, "")

		assert.False(t, result.Success)
	})
}

func TestAllOptions(t *testing.T) {
	t.Run("ranks singles and pairs by score", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),  // perfect, 100
			table("T2", 6, "main"),  // two spare, 90
			table("T3", 8, "patio"), // four spare, 70
		}

		options := AllOptions(4, tables, "")

		// Every pair wastes more than four seats, so only singles rank.
		require.Len(t, options, 3)
		assert.Equal(t, 100, options[0].Score)
		assert.Equal(t, []string{"T1"}, options[0].TableNumbers)
		assert.Equal(t, MatchPerfect, options[0].Match)
		assert.Equal(t, 90, options[1].Score)
		assert.Equal(t, []string{"T2"}, options[1].TableNumbers)
		assert.Equal(t, 70, options[2].Score)
		assert.Equal(t, []string{"T3"}, options[2].TableNumbers)
	})

	t.Run("pair scoring rewards shared location and low waste", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "main"),
			table("T3", 4, "patio"),
		}

		options := AllOptions(8, tables, "")

		require.Len(t, options, 3)

		assert.Equal(t, []string{"T1", "T2"}, options[0].TableNumbers)
		assert.Equal(t, 85, options[0].Score)
		assert.Equal(t, "main", options[0].Location)
		assert.Equal(t, 0, options[0].WasteSeats)

		// Both cross-location pairs waste nothing but span areas.
		assert.Equal(t, 75, options[1].Score)
		assert.Equal(t, LocationMixed, options[1].Location)
		assert.Equal(t, 75, options[2].Score)
	})

	t.Run("stable ordering within equal scores", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 4, "main"),
			table("T2", 4, "main"),
		}

		options := AllOptions(4, tables, "")

		require.Len(t, options, 3)
		assert.Equal(t, []string{"T1"}, options[0].TableNumbers)
		assert.Equal(t, []string{"T2"}, options[1].TableNumbers)
		assert.Equal(t, []string{"T1", "T2"}, options[2].TableNumbers)
	})

	t.Run("undersized singles and wasteful pairs are excluded", func(t *testing.T) {
		tables := []model.Table{
			table("T1", 2, "main"),
			table("T2", 10, "main"),
		}

		options := AllOptions(6, tables, "")

		require.Len(t, options, 1)
		assert.Equal(t, []string{"T2"}, options[0].TableNumbers)
		assert.Equal(t, 70, options[0].Score)
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		validation := Validate(nil, 4)

		assert.False(t, validation.Valid)
		assert.Equal(t, "No tables provided", validation.Reason)
	})

	t.Run("inactive table blocks seating", func(t *testing.T) {
		inactive := table("T7", 4, "main")
		inactive.Active = false

		validation := Validate([]model.Table{inactive}, 4)

		assert.False(t, validation.Valid)
		assert.Contains(t, validation.Reason, "T7")
	})

	t.Run("occupied table blocks seating", func(t *testing.T) {
		occupied := table("T3", 4, "main")
		occupied.Status = model.StatusOccupied

		validation := Validate([]model.Table{occupied}, 4)

		assert.False(t, validation.Valid)
		assert.Contains(t, validation.Reason, "not available")
	})

	t.Run("insufficient combined capacity", func(t *testing.T) {
		validation := Validate([]model.Table{table("T1", 2, "main"), table("T2", 2, "main")}, 6)

		assert.False(t, validation.Valid)
		assert.Contains(t, validation.Reason, "Insufficient capacity")
	})

	t.Run("valid selection reports total capacity", func(t *testing.T) {
		validation := Validate([]model.Table{table("T1", 4, "main"), table("T2", 4, "main")}, 7)

		assert.True(t, validation.Valid)
		assert.Equal(t, 8, validation.TotalCapacity)
	})
}
