package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// CachedSource decorates a CandidateSource with per-blocking-key
// caching. Entries are keyed by tenant, dataset, the assignment's
// filter fingerprint and the blocking key, so a dataset swap or a
// filter change on the same dataset never serves stale candidates.
type CachedSource struct {
	client *Client
	inner  matching.CandidateSource
	ttl    time.Duration
	logger ectologger.Logger
}

// NewCachedSource creates a caching wrapper around source.
func NewCachedSource(client *Client, inner matching.CandidateSource, ttl time.Duration, logger ectologger.Logger) *CachedSource {
	return &CachedSource{
		client: client,
		inner:  inner,
		ttl:    ttl,
		logger: logger,
	}
}

func candidateCacheKey(tenantID string, assignment models.DatasetAssignment, key matching.BlockingKey) string {
	return fmt.Sprintf("fern:candidates:%s:%s:%s:%s", tenantID, assignment.DatasetID, assignment.Filters.Fingerprint(), key.String())
}

// FetchByBlockingKeys serves cached candidate sets where present and
// fetches the rest from the inner source in one call. Empty candidate
// sets are cached too.
func (s *CachedSource) FetchByBlockingKeys(ctx context.Context, tenantID string, assignment models.DatasetAssignment, keys []matching.BlockingKey) ([]models.VoterRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "redis.CachedSource.FetchByBlockingKeys")
	defer span.End()

	log := s.logger.WithContext(ctx)

	seen := make(map[string]bool)
	var records []models.VoterRecord
	addRecords := func(recs []models.VoterRecord) {
		for _, rec := range recs {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)
		}
	}

	var missing []matching.BlockingKey
	for _, key := range keys {
		raw, err := s.client.Get(ctx, candidateCacheKey(tenantID, assignment, key))
		if err == goredis.Nil {
			missing = append(missing, key)
			continue
		}
		if err != nil {
			// A cache outage degrades to a source read, never an error.
			log.WithError(err).Warn("Candidate cache read failed")
			missing = append(missing, key)
			continue
		}

		var cached []models.VoterRecord
		if err := json.Unmarshal([]byte(raw), &cached); err != nil {
			log.WithError(err).Warn("Dropping malformed candidate cache entry")
			missing = append(missing, key)
			continue
		}
		addRecords(cached)
	}

	if len(missing) == 0 {
		return records, nil
	}

	fetched, err := s.inner.FetchByBlockingKeys(ctx, tenantID, assignment, missing)
	if err != nil {
		return nil, err
	}

	s.storeByKey(ctx, tenantID, assignment, missing, fetched)
	addRecords(fetched)
	return records, nil
}

// storeByKey groups the fetched records under each blocking key they
// belong to and writes one cache entry per key.
func (s *CachedSource) storeByKey(ctx context.Context, tenantID string, assignment models.DatasetAssignment, keys []matching.BlockingKey, fetched []models.VoterRecord) {
	grouped := make(map[string][]models.VoterRecord, len(keys))
	for _, key := range keys {
		grouped[key.String()] = []models.VoterRecord{}
	}
	for _, rec := range fetched {
		for _, key := range matching.KeysForRecord(&rec) {
			if _, wanted := grouped[key.String()]; wanted {
				grouped[key.String()] = append(grouped[key.String()], rec)
			}
		}
	}

	log := s.logger.WithContext(ctx)
	for _, key := range keys {
		data, err := json.Marshal(grouped[key.String()])
		if err != nil {
			log.WithError(err).Warn("Failed to marshal candidate cache entry")
			continue
		}
		if err := s.client.Set(ctx, candidateCacheKey(tenantID, assignment, key), data, s.ttl); err != nil {
			log.WithError(err).Warn("Candidate cache write failed")
		}
	}
}
