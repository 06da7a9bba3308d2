// Package matchresult persists match results so ambiguous outcomes can
// be reviewed and overridden after the matching request has returned.
package matchresult

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Record is one stored match result with its review metadata.
type Record struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenant_id"`
	DatasetID  string             `json:"dataset_id"`
	Result     models.MatchResult `json:"result"`
	ReviewedBy string             `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type resultRow struct {
	ID            string                              `db:"id"`
	TenantID      string                              `db:"tenant_id"`
	DatasetID     string                              `db:"dataset_id"`
	PersonID      string                              `db:"person_id"`
	PersonEntry   database.JSONB[models.PersonEntry]  `db:"person_entry"`
	Candidates    database.JSONB[[]models.Candidate]  `db:"candidates"`
	BestMatch     database.JSONB[*models.VoterRecord] `db:"best_match"`
	Status        string                              `db:"status"`
	VoteScore     float64                             `db:"vote_score"`
	Segment       string                              `db:"segment"`
	UserConfirmed bool                                `db:"user_confirmed"`
	ReviewedBy    *string                             `db:"reviewed_by"`
	CreatedAt     time.Time                           `db:"created_at"`
	UpdatedAt     time.Time                           `db:"updated_at"`
}

var resultColumns = []string{
	"id", "tenant_id", "dataset_id", "person_id", "person_entry", "candidates",
	"best_match", "status", "vote_score", "segment", "user_confirmed",
	"reviewed_by", "created_at", "updated_at",
}

func (row resultRow) toRecord() Record {
	record := Record{
		ID:        row.ID,
		TenantID:  row.TenantID,
		DatasetID: row.DatasetID,
		Result: models.MatchResult{
			PersonEntry:   row.PersonEntry.GetValue(),
			Candidates:    row.Candidates.GetValue(),
			BestMatch:     row.BestMatch.GetValue(),
			Status:        models.MatchStatus(row.Status),
			VoteScore:     row.VoteScore,
			Segment:       models.VoterSegment(row.Segment),
			UserConfirmed: row.UserConfirmed,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ReviewedBy != nil {
		record.ReviewedBy = *row.ReviewedBy
	}
	return record
}

// Repository handles match result persistence.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match result repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// SaveBatch stores a batch's results, one row per person entry. A
// re-match updates existing rows unless a human already confirmed them;
// user decisions survive re-matching.
func (r *Repository) SaveBatch(ctx context.Context, tenantID, datasetID string, results []models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.SaveBatch")
	defer span.End()

	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_results")
	sb.Cols(resultColumns...)

	for _, result := range results {
		sb.Values(
			uuid.New().String(), tenantID, datasetID, result.PersonEntry.ID,
			database.JSONB[models.PersonEntry]{Data: result.PersonEntry},
			database.JSONB[[]models.Candidate]{Data: result.Candidates},
			database.JSONB[*models.VoterRecord]{Data: result.BestMatch},
			string(result.Status), result.VoteScore, string(result.Segment),
			result.UserConfirmed, nil, now, now,
		)
	}

	query, args := sb.Build()
	query += ` ON CONFLICT (tenant_id, person_id) DO UPDATE SET
		candidates = EXCLUDED.candidates,
		best_match = EXCLUDED.best_match,
		status = EXCLUDED.status,
		vote_score = EXCLUDED.vote_score,
		segment = EXCLUDED.segment,
		updated_at = EXCLUDED.updated_at
		WHERE match_results.user_confirmed = false`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to save match results batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save match results")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(results)}).Debug("Saved match results batch")
	return nil
}

// Get retrieves a stored match result by ID.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (Record, error) {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(resultColumns...)
	sb.From("match_results")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return Record{}, httperror.NewHTTPError(http.StatusNotFound, "match result not found")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match result")
		return Record{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match result")
	}

	return row.toRecord(), nil
}

// ListForReview returns unreviewed ambiguous results, strongest
// candidates first, so reviewers see the most promising matches at the
// top of the queue.
func (r *Repository) ListForReview(ctx context.Context, tenantID string, limit, offset int) ([]Record, error) {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.ListForReview")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(resultColumns...)
	sb.From("match_results")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("status", string(models.MatchStatusAmbiguous)),
		sb.Equal("user_confirmed", false),
	)
	sb.OrderBy("(candidates->0->>'score')::float DESC", "created_at ASC")
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	rows := []resultRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list match results for review")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match results")
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

// SaveReview persists a reviewed result with attribution.
func (r *Repository) SaveReview(ctx context.Context, tenantID, id, reviewedBy string, result models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.SaveReview")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("match_results")
	ub.Set(
		ub.Assign("best_match", database.JSONB[*models.VoterRecord]{Data: result.BestMatch}),
		ub.Assign("status", string(result.Status)),
		ub.Assign("vote_score", result.VoteScore),
		ub.Assign("segment", string(result.Segment)),
		ub.Assign("user_confirmed", result.UserConfirmed),
		ub.Assign("reviewed_by", reviewedBy),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(
		ub.Equal("id", id),
		ub.Equal("tenant_id", tenantID),
	)

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"result_id": id}).Error("Failed to save review")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save review")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "match result not found")
	}

	return nil
}

// StatsByTenant recomputes the aggregate counts across a tenant's
// stored results.
func (r *Repository) StatsByTenant(ctx context.Context, tenantID string) (models.BatchStats, error) {
	ctx, span := tracing.StartSpan(ctx, "matchresult.Repository.StatsByTenant")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE status = 'confirmed') AS matched_count",
		"COUNT(*) FILTER (WHERE status = 'ambiguous') AS ambiguous",
		"COUNT(*) FILTER (WHERE status = 'unmatched') AS unmatched",
	)
	sb.From("match_results")
	sb.Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()
	var stats models.BatchStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to compute match result stats")
		return models.BatchStats{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to compute stats")
	}

	if stats.Total > 0 {
		rate := float64(stats.MatchedCount) / float64(stats.Total) * 100
		stats.ValidityRate = math.Round(rate*10) / 10
	}
	return stats, nil
}
