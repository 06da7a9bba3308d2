package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/segmentation"
)

func newTestReviewer() *Reviewer {
	return NewReviewer(segmentation.NewSegmenter(segmentation.DefaultConfig()))
}

func ambiguousResult() models.MatchResult {
	return models.MatchResult{
		PersonEntry: models.PersonEntry{ID: "p1", FirstName: "Bob", LastName: "Smith"},
		Candidates: []models.Candidate{
			{
				VoterRecord: models.VoterRecord{ID: "v1", FirstName: "Robert", LastName: "Smith", VoteFrequency: 4, Ordinal: 0},
				Score:       0.92,
				Confidence:  models.ConfidenceHigh,
			},
			{
				VoterRecord: models.VoterRecord{ID: "v2", FirstName: "Roberta", LastName: "Smith", VoteFrequency: 1, Ordinal: 1},
				Score:       0.90,
				Confidence:  models.ConfidenceHigh,
			},
		},
		Status: models.MatchStatusAmbiguous,
	}
}

func TestAcceptCandidate(t *testing.T) {
	reviewer := newTestReviewer()

	t.Run("AcceptSetsMatchAndSegment", func(t *testing.T) {
		result := ambiguousResult()

		err := reviewer.AcceptCandidate(&result, 1)
		require.NoError(t, err)

		assert.Equal(t, models.MatchStatusConfirmed, result.Status)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "v2", result.BestMatch.ID)
		assert.InDelta(t, 0.25, result.VoteScore, 1e-9)
		assert.Equal(t, models.SegmentRarelyVoter, result.Segment)
		assert.True(t, result.UserConfirmed)
	})

	t.Run("AcceptIsIdempotent", func(t *testing.T) {
		result := ambiguousResult()

		require.NoError(t, reviewer.AcceptCandidate(&result, 0))
		first := result
		require.NoError(t, reviewer.AcceptCandidate(&result, 0))
		assert.Equal(t, first, result)
	})

	t.Run("OutOfRangeIndexLeavesResultUntouched", func(t *testing.T) {
		result := ambiguousResult()
		before := result

		assert.ErrorIs(t, reviewer.AcceptCandidate(&result, 2), ErrInvalidCandidateIndex)
		assert.ErrorIs(t, reviewer.AcceptCandidate(&result, -1), ErrInvalidCandidateIndex)
		assert.Equal(t, before, result)
	})
}

func TestRejectAll(t *testing.T) {
	reviewer := newTestReviewer()

	t.Run("RejectClearsMatch", func(t *testing.T) {
		result := ambiguousResult()

		err := reviewer.RejectAll(&result)
		require.NoError(t, err)

		assert.Equal(t, models.MatchStatusUnmatched, result.Status)
		assert.Nil(t, result.BestMatch)
		assert.Zero(t, result.VoteScore)
		assert.Empty(t, result.Segment)
		assert.True(t, result.UserConfirmed)
	})

	t.Run("RejectOverridesEarlierAccept", func(t *testing.T) {
		result := ambiguousResult()

		require.NoError(t, reviewer.AcceptCandidate(&result, 0))
		require.NoError(t, reviewer.RejectAll(&result))

		assert.Equal(t, models.MatchStatusUnmatched, result.Status)
		assert.Nil(t, result.BestMatch)
	})

	t.Run("AcceptOverridesEarlierReject", func(t *testing.T) {
		result := ambiguousResult()

		require.NoError(t, reviewer.RejectAll(&result))
		require.NoError(t, reviewer.AcceptCandidate(&result, 0))

		assert.Equal(t, models.MatchStatusConfirmed, result.Status)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "v1", result.BestMatch.ID)
	})
}

func TestRecomputeStats(t *testing.T) {
	t.Run("MixedStatuses", func(t *testing.T) {
		results := []models.MatchResult{
			{Status: models.MatchStatusConfirmed},
			{Status: models.MatchStatusAmbiguous},
			{Status: models.MatchStatusUnmatched},
		}

		stats := RecomputeStats(results)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 1, stats.MatchedCount)
		assert.Equal(t, 1, stats.Ambiguous)
		assert.Equal(t, 1, stats.Unmatched)
		assert.InDelta(t, 33.3, stats.ValidityRate, 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		stats := RecomputeStats(nil)
		assert.Equal(t, models.BatchStats{}, stats)
	})

	t.Run("ReflectsOverrides", func(t *testing.T) {
		reviewer := newTestReviewer()
		results := []models.MatchResult{ambiguousResult(), ambiguousResult()}

		require.NoError(t, reviewer.AcceptCandidate(&results[0], 0))
		require.NoError(t, reviewer.RejectAll(&results[1]))

		stats := RecomputeStats(results)
		assert.Equal(t, 1, stats.MatchedCount)
		assert.Equal(t, 0, stats.Ambiguous)
		assert.Equal(t, 1, stats.Unmatched)
		assert.InDelta(t, 50.0, stats.ValidityRate, 1e-9)
	})
}
