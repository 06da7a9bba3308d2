package matching

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

var rankerNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestRanker() *Ranker {
	return NewRanker(DefaultConfig(), rankerNow)
}

func charlotteRecord(id string, ordinal int) models.VoterRecord {
	return models.VoterRecord{
		ID:                 id,
		FirstName:          "Robert",
		LastName:           "Smith",
		ResidentialAddress: "123 N Main St",
		City:               "Charlotte",
		State:              "NC",
		Zip:                "28202",
		Ordinal:            ordinal,
	}
}

func TestRankerExactMatch(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{
		ID:        "p1",
		FirstName: "Robert",
		LastName:  "Smith",
		Address:   "123 North Main Street",
		City:      "Charlotte",
		Zip:       "28202",
	}
	rec := charlotteRecord("v1", 0)

	result := ranker.Rank(entry, []*models.VoterRecord{&rec})

	require.Len(t, result.Candidates, 1)
	assert.InDelta(t, 1.0, result.Candidates[0].Score, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, result.Candidates[0].Confidence)
	assert.Equal(t, models.MatchStatusConfirmed, result.Status)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "v1", result.BestMatch.ID)
	assert.ElementsMatch(t, []string{"first_name", "last_name", "address", "city", "zip"}, result.Candidates[0].MatchedOn)
}

func TestRankerAgeRangeScoresAsEvidence(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{
		ID:        "p1",
		FirstName: "Robert",
		LastName:  "Smith",
		City:      "Charlotte",
		AgeRange:  "40-50",
	}
	rec := charlotteRecord("v1", 0)
	rec.BirthYear = "1981"

	result := ranker.Rank(entry, []*models.VoterRecord{&rec})

	require.Len(t, result.Candidates, 1)
	assert.InDelta(t, 1.0, result.Candidates[0].Score, 1e-9)
	assert.Contains(t, result.Candidates[0].MatchedOn, "age")
}

func TestRankerMissingFieldsAreNeutral(t *testing.T) {
	ranker := newTestRanker()

	// Person supplied only names and city; address, zip, age and gender
	// carry no evidence and must not drag the score down.
	entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte"}
	rec := charlotteRecord("v1", 0)

	result := ranker.Rank(entry, []*models.VoterRecord{&rec})

	require.Len(t, result.Candidates, 1)
	assert.InDelta(t, 1.0, result.Candidates[0].Score, 1e-9)
	assert.Equal(t, models.MatchStatusConfirmed, result.Status)
}

func TestRankerNicknameMatch(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{
		ID:        "p1",
		FirstName: "Bob",
		LastName:  "Smith",
		City:      "Charlotte",
		Zip:       "28202",
	}
	rec := charlotteRecord("v1", 0)

	result := ranker.Rank(entry, []*models.VoterRecord{&rec})

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, models.MatchStatusConfirmed, result.Status)
	assert.Greater(t, result.Candidates[0].Score, 0.90)
	assert.Less(t, result.Candidates[0].Score, 1.0)
}

func TestRankerClassification(t *testing.T) {
	ranker := newTestRanker()

	t.Run("NoCandidatesIsUnmatched", func(t *testing.T) {
		result := ranker.Rank(models.PersonEntry{ID: "p1", FirstName: "Bob", LastName: "Smith"}, nil)
		assert.Equal(t, models.MatchStatusUnmatched, result.Status)
		assert.Nil(t, result.BestMatch)
		assert.Empty(t, result.Candidates)
	})

	t.Run("LowScoreIsUnmatched", func(t *testing.T) {
		entry := models.PersonEntry{ID: "p1", FirstName: "Zzzz", LastName: "Qqqq", City: "Charlotte"}
		rec := charlotteRecord("v1", 0)

		result := ranker.Rank(entry, []*models.VoterRecord{&rec})
		assert.Equal(t, models.MatchStatusUnmatched, result.Status)
		assert.Nil(t, result.BestMatch)
	})

	t.Run("MiddleBandIsAmbiguous", func(t *testing.T) {
		// Last name, city and zip agree; first name shares nothing.
		// (0.25 + 0.10 + 0.10) / 0.70 lands between the thresholds.
		entry := models.PersonEntry{ID: "p1", FirstName: "Zzzz", LastName: "Smith", City: "Charlotte", Zip: "28202"}
		rec := charlotteRecord("v1", 0)

		result := ranker.Rank(entry, []*models.VoterRecord{&rec})
		require.Len(t, result.Candidates, 1)
		assert.InDelta(t, 0.45/0.70, result.Candidates[0].Score, 1e-9)
		assert.Equal(t, models.MatchStatusAmbiguous, result.Status)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "v1", result.BestMatch.ID)
	})

	t.Run("NearTieDowngradesToAmbiguous", func(t *testing.T) {
		entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte", Zip: "28202"}
		recA := charlotteRecord("v1", 0)
		recB := charlotteRecord("v2", 1)

		result := ranker.Rank(entry, []*models.VoterRecord{&recA, &recB})
		require.Len(t, result.Candidates, 2)
		assert.Equal(t, models.MatchStatusAmbiguous, result.Status)
		// Both candidates surface for review, best-so-far first.
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "v1", result.BestMatch.ID)
	})

	t.Run("ClearWinnerConfirmsDespiteRunnerUp", func(t *testing.T) {
		entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte", Zip: "28202"}
		exact := charlotteRecord("v1", 0)
		weak := charlotteRecord("v2", 1)
		weak.FirstName = "Zzzz"
		weak.City = "Raleigh"

		result := ranker.Rank(entry, []*models.VoterRecord{&weak, &exact})
		require.Len(t, result.Candidates, 2)
		assert.Equal(t, "v1", result.Candidates[0].VoterRecord.ID)
		assert.Equal(t, models.MatchStatusConfirmed, result.Status)
	})
}

func TestRankerDeterminism(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte", Zip: "28202"}
	records := []*models.VoterRecord{}
	for i := 0; i < 8; i++ {
		rec := charlotteRecord("v"+strconv.Itoa(i), i)
		records = append(records, &rec)
	}

	first := ranker.Rank(entry, records)
	second := ranker.Rank(entry, records)
	assert.Equal(t, first, second)

	t.Run("EqualScoresBreakTiesByOrdinal", func(t *testing.T) {
		ordinals := make([]int, len(first.Candidates))
		for i, c := range first.Candidates {
			ordinals[i] = c.VoterRecord.Ordinal
		}
		assert.IsIncreasing(t, ordinals)
	})

	t.Run("TopNTruncation", func(t *testing.T) {
		assert.Len(t, first.Candidates, DefaultConfig().TopN)
	})
}

func TestRankerScoreMonotonicity(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte", Zip: "28202"}
	better := charlotteRecord("v1", 0)
	worse := charlotteRecord("v2", 1)
	worse.Zip = "90210"

	result := ranker.Rank(entry, []*models.VoterRecord{&worse, &better})
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "v1", result.Candidates[0].VoterRecord.ID)
	assert.Greater(t, result.Candidates[0].Score, result.Candidates[1].Score)
}

func TestRankerSkipsUnusableRecords(t *testing.T) {
	ranker := newTestRanker()

	entry := models.PersonEntry{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte"}
	empty := models.VoterRecord{ID: "v0", Ordinal: 0}
	rec := charlotteRecord("v1", 1)

	result := ranker.Rank(entry, []*models.VoterRecord{&empty, &rec})
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "v1", result.Candidates[0].VoterRecord.ID)
}
