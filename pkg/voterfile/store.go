// Package voterfile serves voter records from in-memory state voter
// files. It is the candidate source for deployments that load whole
// voter files at startup instead of importing them into Postgres.
package voterfile

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// DefaultIndexCacheSize bounds how many dataset indexes stay resident.
const DefaultIndexCacheSize = 8

// Store holds voter files keyed by dataset ID and serves candidates
// through prebuilt blocking indexes. Indexes are built once per dataset
// and cached; a reload invalidates the cached index.
type Store struct {
	mu      sync.RWMutex
	files   map[string][]models.VoterRecord
	indexes *lru.Cache[string, *matching.Index]
	logger  ectologger.Logger
}

// NewStore creates an empty store with an index cache of the given
// size.
func NewStore(logger ectologger.Logger, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultIndexCacheSize
	}
	indexes, err := lru.New[string, *matching.Index](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{
		files:   make(map[string][]models.VoterRecord),
		indexes: indexes,
		logger:  logger,
	}, nil
}

// LoadDataset replaces the voter file for a dataset. Records without an
// ordinal get their file position, keeping candidate ordering
// deterministic.
func (s *Store) LoadDataset(datasetID string, records []models.VoterRecord) {
	for i := range records {
		if records[i].Ordinal == 0 {
			records[i].Ordinal = i
		}
	}

	s.mu.Lock()
	s.files[datasetID] = records
	s.mu.Unlock()
	s.indexes.Remove(datasetID)

	s.logger.WithFields(map[string]any{
		"dataset_id": datasetID,
		"records":    len(records),
	}).Info("Loaded voter file dataset")
}

// Datasets returns the IDs of all loaded datasets.
func (s *Store) Datasets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	return ids
}

// FetchByBlockingKeys returns records in the assignment's dataset that
// share any blocking key with the batch, filtered by the assignment's
// geographic filters.
func (s *Store) FetchByBlockingKeys(ctx context.Context, tenantID string, assignment models.DatasetAssignment, keys []matching.BlockingKey) ([]models.VoterRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "voterfile.Store.FetchByBlockingKeys")
	defer span.End()

	index, err := s.indexFor(assignment.DatasetID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id":  tenantID,
			"dataset_id": assignment.DatasetID,
		}).Error("Voter file dataset not loaded")
		return nil, err
	}

	matched := index.Lookup(keys, 0)

	records := make([]models.VoterRecord, 0, len(matched))
	for _, rec := range matched {
		if !matching.MatchesFilters(rec, assignment.Filters) {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// indexFor returns the dataset's blocking index, building and caching
// it on first use.
func (s *Store) indexFor(datasetID string) (*matching.Index, error) {
	if index, ok := s.indexes.Get(datasetID); ok {
		metrics.VoterFileCacheHits.WithLabelValues("hit").Inc()
		return index, nil
	}
	metrics.VoterFileCacheHits.WithLabelValues("miss").Inc()

	s.mu.RLock()
	records, ok := s.files[datasetID]
	s.mu.RUnlock()
	if !ok {
		return nil, matching.ErrDatasetUnavailable
	}

	index := matching.BuildIndex(records)
	s.indexes.Add(datasetID, index)
	return index, nil
}
