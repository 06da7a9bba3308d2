// Package matching implements voter-record matching with a clear separation:
// - Blocking = candidate generation (performance step, never changes semantics)
// - Ranking = weighted field scoring and classification (correctness step)
package matching

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/segmentation"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Engine runs batch voter matching. Stateless across calls: it never
// retains references to inputs or results, so concurrent batches for
// different tenants cannot interfere.
type Engine struct {
	logger    ectologger.Logger
	source    CandidateSource
	segmenter *segmentation.Segmenter
	cfg       Config
}

// NewEngine creates a new match engine.
func NewEngine(logger ectologger.Logger, source CandidateSource, segmenter *segmentation.Segmenter, cfg Config) *Engine {
	return &Engine{
		logger:    logger,
		source:    source,
		segmenter: segmenter,
		cfg:       cfg,
	}
}

// MatchBatch matches a batch of person entries against the assigned
// dataset.
//
// Guarantees:
// - Output order mirrors input order for all processed entries.
// - Entries missing required name fields are skipped and counted, not fatal.
// - A dataset read failure fails the whole batch; no partial results.
// - One candidate fetch per batch (union of all blocking keys), not
//   one per person.
func (e *Engine) MatchBatch(ctx context.Context, tenantID string, assignment models.DatasetAssignment, entries []models.PersonEntry) (*models.BatchMatchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.MatchBatch")
	defer span.End()

	start := time.Now()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":  tenantID,
		"dataset_id": assignment.DatasetID,
		"batch_size": len(entries),
	})

	if len(entries) > e.cfg.MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	// Normalize every entry once; both blocking and scoring reuse it.
	persons := make([]normalizedPerson, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if entry.Category == "" {
			entry.Category = models.CategoryDefault
		}
		person := normalizePerson(entry)
		if !entry.HasRequiredFields() || person.firstName == "" || person.lastName == "" {
			skipped++
			log.WithFields(map[string]any{"entry_id": entry.ID}).Warn("Skipping entry with missing name fields")
			continue
		}
		persons = append(persons, person)
	}

	// Union of blocking keys across the batch, deduplicated, so the
	// source does one read per distinct key set.
	keySet := make(map[string]BlockingKey)
	for _, person := range persons {
		for _, key := range person.BlockingKeys() {
			keySet[key.String()] = key
		}
	}
	keys := make([]BlockingKey, 0, len(keySet))
	for _, key := range keySet {
		keys = append(keys, key)
	}

	var index *Index
	if len(keys) > 0 {
		records, err := e.source.FetchByBlockingKeys(ctx, tenantID, assignment, keys)
		if err != nil {
			log.WithError(err).Error("Failed to fetch candidate voter records")
			metrics.BatchesTotal.WithLabelValues(tenantID, "error").Inc()
			return nil, err
		}
		index = BuildIndex(records)
	} else {
		index = BuildIndex(nil)
	}

	ranker := NewRanker(e.cfg, start)

	results := make([]models.MatchResult, 0, len(persons))
	for _, person := range persons {
		candidates := index.Lookup(person.BlockingKeys(), e.cfg.MaxCandidates)
		result := ranker.rankNormalized(person, candidates)

		if result.Status == models.MatchStatusConfirmed {
			result.VoteScore = result.BestMatch.VoteScore()
			result.Segment = e.segmenter.Segment(result.VoteScore)
		}

		metrics.MatchResultsTotal.WithLabelValues(tenantID, string(result.Status)).Inc()
		results = append(results, result)
	}

	elapsed := time.Since(start)
	metrics.BatchesTotal.WithLabelValues(tenantID, "ok").Inc()
	metrics.BatchDuration.WithLabelValues(tenantID).Observe(elapsed.Seconds())

	log.WithFields(map[string]any{
		"processed":     len(results),
		"skipped":       skipped,
		"candidate_set": index.Size(),
		"elapsed_ms":    elapsed.Milliseconds(),
	}).Debug("Completed match batch")

	return &models.BatchMatchResponse{
		Results:          results,
		SkippedCount:     skipped,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}
