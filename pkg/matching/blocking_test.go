package matching

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestBlockingKeys(t *testing.T) {
	t.Run("FullEntryYieldsAllKeys", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{
			ID:        "p1",
			FirstName: "Bob",
			LastName:  "Smith",
			City:      "Charlotte",
			Zip:       "28202",
		})

		keys := person.BlockingKeys()
		require.Len(t, keys, 3)
		assert.Equal(t, BlockingKey{Kind: BlockLastCity, LastName: "smith", Value: "charlotte"}, keys[0])
		assert.Equal(t, BlockingKey{Kind: BlockLastZip3, LastName: "smith", Value: "282"}, keys[1])
		assert.Equal(t, BlockingKey{Kind: BlockLastInitial, LastName: "smith", Value: "b"}, keys[2])
	})

	t.Run("NoLastNameYieldsNoKeys", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{ID: "p2", FirstName: "Bob"})
		assert.Empty(t, person.BlockingKeys())
	})

	t.Run("NamesOnlyYieldsInitialKey", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{ID: "p3", FirstName: "Bob", LastName: "Smith"})
		keys := person.BlockingKeys()
		require.Len(t, keys, 1)
		assert.Equal(t, BlockLastInitial, keys[0].Kind)
	})

	t.Run("StringEncoding", func(t *testing.T) {
		key := BlockingKey{Kind: BlockLastCity, LastName: "smith", Value: "charlotte"}
		assert.Equal(t, "last_city|smith|charlotte", key.String())
	})

	t.Run("MultibyteInitialStaysValidUTF8", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{ID: "p4", FirstName: "Álvaro", LastName: "García"})
		keys := person.BlockingKeys()
		require.Len(t, keys, 1)
		assert.Equal(t, "á", keys[0].Value)
		assert.True(t, utf8.ValidString(keys[0].Value))

		rec := &models.VoterRecord{ID: "v1", FirstName: "Álvaro", LastName: "García"}
		recKeys := KeysForRecord(rec)
		require.Len(t, recKeys, 1)
		assert.Equal(t, keys[0], recKeys[0])
	})
}

func TestAgeFromRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"ClosedBracketMidpoint", "40-50", 45},
		{"ClosedBracketRoundsDown", "18-24", 21},
		{"OpenBracket", "65+", 70},
		{"Whitespace", " 25 - 34 ", 29},
		{"Empty", "", 0},
		{"NotARange", "forties", 0},
		{"InvertedBounds", "50-40", 0},
		{"NegativeBound", "-5-10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageFromRange(tt.input))
		})
	}

	t.Run("ExplicitAgeWinsOverRange", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{ID: "p1", FirstName: "Ann", LastName: "Lee", Age: 33, AgeRange: "60-70"})
		assert.Equal(t, 33, person.age)
	})

	t.Run("RangeAloneSuppliesAgeEvidence", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{ID: "p2", FirstName: "Ann", LastName: "Lee", AgeRange: "40-50"})
		assert.Equal(t, 45, person.age)
	})
}

func TestIndexLookup(t *testing.T) {
	records := []models.VoterRecord{
		{ID: "v1", FirstName: "Robert", LastName: "Smith", City: "Charlotte", Zip: "28202", Ordinal: 0},
		{ID: "v2", FirstName: "Rachel", LastName: "Smith", City: "Charlotte", Zip: "28277", Ordinal: 1},
		{ID: "v3", FirstName: "Robert", LastName: "Jones", City: "Charlotte", Zip: "28202", Ordinal: 2},
	}
	idx := BuildIndex(records)

	t.Run("Size", func(t *testing.T) {
		assert.Equal(t, 3, idx.Size())
	})

	t.Run("UnionAcrossKeysDeduplicates", func(t *testing.T) {
		person := normalizePerson(models.PersonEntry{
			ID: "p1", FirstName: "Bob", LastName: "Smith", City: "Charlotte", Zip: "28202",
		})

		// v1 matches the city, zip3 and initial keys for Smith; it must
		// appear once.
		got := idx.Lookup(person.BlockingKeys(), 0)
		require.Len(t, got, 2)
		assert.Equal(t, "v1", got[0].ID)
		assert.Equal(t, "v2", got[1].ID)
	})

	t.Run("OrdinalOrder", func(t *testing.T) {
		keys := []BlockingKey{
			{Kind: BlockLastCity, LastName: "jones", Value: "charlotte"},
			{Kind: BlockLastCity, LastName: "smith", Value: "charlotte"},
		}
		got := idx.Lookup(keys, 0)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"v1", "v2", "v3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("LimitCaps", func(t *testing.T) {
		keys := []BlockingKey{{Kind: BlockLastCity, LastName: "smith", Value: "charlotte"}}
		got := idx.Lookup(keys, 1)
		require.Len(t, got, 1)
		assert.Equal(t, "v1", got[0].ID)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		keys := []BlockingKey{{Kind: BlockLastCity, LastName: "nguyen", Value: "raleigh"}}
		assert.Empty(t, idx.Lookup(keys, 0))
	})
}

func TestMatchesFilters(t *testing.T) {
	rec := &models.VoterRecord{ID: "v1", City: "Charlotte", Zip: "28202"}

	t.Run("NoFilters", func(t *testing.T) {
		assert.True(t, MatchesFilters(rec, models.GeographicFilters{}))
	})

	t.Run("CityFilter", func(t *testing.T) {
		assert.True(t, MatchesFilters(rec, models.GeographicFilters{City: "CHARLOTTE"}))
		assert.False(t, MatchesFilters(rec, models.GeographicFilters{City: "Raleigh"}))
	})

	t.Run("ZipFilter", func(t *testing.T) {
		assert.True(t, MatchesFilters(rec, models.GeographicFilters{Zip: "28202"}))
		assert.False(t, MatchesFilters(rec, models.GeographicFilters{Zip: "28277"}))
	})
}
