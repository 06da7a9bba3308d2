// Package voterrecord reads voter records from Postgres by blocking
// key. It is the SQL-backed candidate source for the match engine.
package voterrecord

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// fetchCap bounds how many rows one batch's key set may pull back.
// Generous relative to per-person candidate caps since one fetch serves
// a whole batch.
const fetchCap = 20000

var voterColumns = []string{
	"id", "first_name", "last_name", "residential_address", "city", "state",
	"zip", "birth_year", "gender", "party_affiliation", "voter_status",
	"vote_frequency", "ordinal",
}

// Repository reads voter records for candidate generation. Voter
// records are reference data; this repository never writes them outside
// of dataset imports.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new voter record repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// FetchByBlockingKeys returns all records in the assignment's dataset
// matching any of the blocking keys, with the assignment's geographic
// filters applied in SQL. One query serves the whole key set.
func (r *Repository) FetchByBlockingKeys(ctx context.Context, tenantID string, assignment models.DatasetAssignment, keys []matching.BlockingKey) ([]models.VoterRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "voterrecord.Repository.FetchByBlockingKeys")
	defer span.End()

	if len(keys) == 0 {
		return []models.VoterRecord{}, nil
	}

	start := time.Now()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(voterColumns...)
	sb.From("voter_records")

	keyExprs := make([]string, 0, len(keys))
	for _, key := range keys {
		expr, ok := r.keyExpr(sb, key)
		if !ok {
			continue
		}
		keyExprs = append(keyExprs, expr)
	}
	if len(keyExprs) == 0 {
		return []models.VoterRecord{}, nil
	}

	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("dataset_id", assignment.DatasetID),
		sb.Or(keyExprs...),
	)
	r.applyFilters(sb, assignment.Filters)
	sb.OrderBy("ordinal").Asc()
	sb.Limit(fetchCap)

	query, args := sb.Build()

	var records []models.VoterRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id":  tenantID,
			"dataset_id": assignment.DatasetID,
			"key_count":  len(keys),
		}).Error("Failed to fetch voter records by blocking keys")
		return nil, matching.ErrDatasetUnavailable
	}

	metrics.CandidateFetchDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"dataset_id": assignment.DatasetID,
		"key_count":  len(keys),
		"records":    len(records),
	}).Debug("Fetched candidate voter records")

	return records, nil
}

// keyExpr builds the WHERE clause for one blocking key against the
// normalized columns populated at import time.
func (r *Repository) keyExpr(sb *sqlbuilder.SelectBuilder, key matching.BlockingKey) (string, bool) {
	switch key.Kind {
	case matching.BlockLastCity:
		return sb.And(sb.Equal("last_name_norm", key.LastName), sb.Equal("city_norm", key.Value)), true
	case matching.BlockLastZip3:
		return sb.And(sb.Equal("last_name_norm", key.LastName), sb.Equal("zip3", key.Value)), true
	case matching.BlockLastInitial:
		return sb.And(sb.Equal("last_name_norm", key.LastName), sb.Equal("first_initial", key.Value)), true
	default:
		return "", false
	}
}

func (r *Repository) applyFilters(sb *sqlbuilder.SelectBuilder, filters models.GeographicFilters) {
	if filters.CongressionalDistrict != "" {
		sb.Where(sb.Equal("congressional_district", filters.CongressionalDistrict))
	}
	if filters.StateSenateDistrict != "" {
		sb.Where(sb.Equal("state_senate_district", filters.StateSenateDistrict))
	}
	if filters.StateHouseDistrict != "" {
		sb.Where(sb.Equal("state_house_district", filters.StateHouseDistrict))
	}
	if filters.City != "" {
		sb.Where(sb.Equal("city_norm", normalizers.NormalizeCity(filters.City)))
	}
	if filters.Zip != "" {
		sb.Where(sb.Equal("zip", normalizers.NormalizeZip(filters.Zip)))
	}
}

// CountByDataset returns how many voter records a dataset holds.
func (r *Repository) CountByDataset(ctx context.Context, tenantID, datasetID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "voterrecord.Repository.CountByDataset")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("voter_records")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("dataset_id", datasetID),
	)

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count voter records")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count voter records")
	}
	return count, nil
}
