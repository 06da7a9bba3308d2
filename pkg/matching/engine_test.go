package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/segmentation"
)

// stubSource serves a fixed record slice and counts fetches.
type stubSource struct {
	records []models.VoterRecord
	err     error
	calls   int
}

func (s *stubSource) FetchByBlockingKeys(_ context.Context, _ string, _ models.DatasetAssignment, _ []BlockingKey) ([]models.VoterRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func newTestEngine(source CandidateSource) *Engine {
	return NewEngine(logging.NewNoop(), source, segmentation.NewSegmenter(segmentation.DefaultConfig()), DefaultConfig())
}

func testAssignment() models.DatasetAssignment {
	return models.DatasetAssignment{TenantID: "t1", DatasetID: "nc-2026", State: "NC"}
}

func TestEngineMatchBatch(t *testing.T) {
	ctx := context.Background()

	records := []models.VoterRecord{
		{
			ID:                 "v1",
			FirstName:          "Robert",
			LastName:           "Smith",
			ResidentialAddress: "123 Main St",
			City:               "Charlotte",
			Zip:                "28202",
			VoteFrequency:      4,
			Ordinal:            0,
		},
		{
			ID:            "v2",
			FirstName:     "Rachel",
			LastName:      "Jones",
			City:          "Charlotte",
			Zip:           "28277",
			VoteFrequency: 1,
			Ordinal:       1,
		},
	}

	t.Run("ConfirmedMatchGetsVoteScoreAndSegment", func(t *testing.T) {
		source := &stubSource{records: records}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "Bob", LastName: "Smith", City: "Charlotte", Zip: "28202"},
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)

		result := resp.Results[0]
		assert.Equal(t, models.MatchStatusConfirmed, result.Status)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "v1", result.BestMatch.ID)
		assert.InDelta(t, 1.0, result.VoteScore, 1e-9)
		assert.Equal(t, models.SegmentSuperVoter, result.Segment)
		assert.Equal(t, models.CategoryDefault, result.PersonEntry.Category)
	})

	t.Run("SkippedEntriesAreCountedAndOrderPreserved", func(t *testing.T) {
		source := &stubSource{records: records}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte"},
			{ID: "p2", FirstName: "NoLastName"},
			{ID: "p3", FirstName: "Rachel", LastName: "Jones", City: "Charlotte"},
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.SkippedCount)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "p1", resp.Results[0].PersonEntry.ID)
		assert.Equal(t, "p3", resp.Results[1].PersonEntry.ID)
	})

	t.Run("SingleFetchPerBatch", func(t *testing.T) {
		source := &stubSource{records: records}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte"},
			{ID: "p2", FirstName: "Rachel", LastName: "Jones", City: "Charlotte"},
			{ID: "p3", FirstName: "Alice", LastName: "Brown", City: "Raleigh"},
		}

		_, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		require.NoError(t, err)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("NoCandidatesIsUnmatched", func(t *testing.T) {
		source := &stubSource{}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "Robert", LastName: "Nowhere", City: "Asheville"},
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, models.MatchStatusUnmatched, resp.Results[0].Status)
		assert.Nil(t, resp.Results[0].BestMatch)
		assert.Zero(t, resp.Results[0].VoteScore)
		assert.Empty(t, resp.Results[0].Segment)
	})

	t.Run("AllEntriesSkippedMeansNoFetch", func(t *testing.T) {
		source := &stubSource{records: records}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "OnlyFirst"},
			{ID: "p2", LastName: "OnlyLast"},
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.Equal(t, 2, resp.SkippedCount)
		assert.Zero(t, source.calls)
	})

	t.Run("SourceErrorFailsBatch", func(t *testing.T) {
		source := &stubSource{err: ErrDatasetUnavailable}
		engine := newTestEngine(source)

		entries := []models.PersonEntry{
			{ID: "p1", FirstName: "Robert", LastName: "Smith", City: "Charlotte"},
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrDatasetUnavailable)
	})

	t.Run("BatchTooLarge", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxBatchSize = 2
		engine := NewEngine(logging.NewNoop(), &stubSource{records: records}, segmentation.NewSegmenter(segmentation.DefaultConfig()), cfg)

		entries := make([]models.PersonEntry, 3)
		for i := range entries {
			entries[i] = models.PersonEntry{ID: "p", FirstName: "A", LastName: "B"}
		}

		resp, err := engine.MatchBatch(ctx, "t1", testAssignment(), entries)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})
}
