package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
)

func TestCandidateCacheKey(t *testing.T) {
	key := matching.BlockingKey{Kind: matching.BlockLastCity, LastName: "smith", Value: "charlotte"}
	base := models.DatasetAssignment{TenantID: "t1", DatasetID: "nc-2026"}

	t.Run("StableForSameAssignment", func(t *testing.T) {
		assert.Equal(t, candidateCacheKey("t1", base, key), candidateCacheKey("t1", base, key))
	})

	t.Run("FilterChangeInvalidates", func(t *testing.T) {
		// Re-assigning the same dataset with different filters must not
		// hit entries cached under the old filter set.
		filtered := base
		filtered.Filters = models.GeographicFilters{City: "Charlotte"}
		assert.NotEqual(t, candidateCacheKey("t1", base, key), candidateCacheKey("t1", filtered, key))

		refiltered := filtered
		refiltered.Filters.Zip = "28202"
		assert.NotEqual(t, candidateCacheKey("t1", filtered, key), candidateCacheKey("t1", refiltered, key))
	})

	t.Run("ScopedByTenantAndDataset", func(t *testing.T) {
		other := base
		other.DatasetID = "nc-2024"
		assert.NotEqual(t, candidateCacheKey("t1", base, key), candidateCacheKey("t2", base, key))
		assert.NotEqual(t, candidateCacheKey("t1", base, key), candidateCacheKey("t1", other, key))
	})

	t.Run("ScopedByBlockingKey", func(t *testing.T) {
		otherKey := matching.BlockingKey{Kind: matching.BlockLastZip3, LastName: "smith", Value: "282"}
		assert.NotEqual(t, candidateCacheKey("t1", base, key), candidateCacheKey("t1", base, otherKey))
	})
}
