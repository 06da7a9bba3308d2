// Package dataset persists dataset assignments: which voter dataset a
// tenant's campaign matches against, and its geographic filters.
package dataset

import (
	"context"
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

// assignmentRow maps the dataset_assignments table. Filters live in a
// jsonb column.
type assignmentRow struct {
	ID        string                                   `db:"id"`
	TenantID  string                                   `db:"tenant_id"`
	DatasetID string                                   `db:"dataset_id"`
	State     string                                   `db:"state"`
	Filters   database.JSONB[models.GeographicFilters] `db:"filters"`
	CreatedAt time.Time                                `db:"created_at"`
	UpdatedAt time.Time                                `db:"updated_at"`
}

func (row assignmentRow) toModel() models.DatasetAssignment {
	return models.DatasetAssignment{
		ID:        row.ID,
		TenantID:  row.TenantID,
		DatasetID: row.DatasetID,
		State:     row.State,
		Filters:   row.Filters.GetValue(),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// Repository handles dataset assignment persistence.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new dataset assignment repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByTenant returns the tenant's current dataset assignment. Not
// found is a 404; matching routes translate it into a clear "no dataset
// assigned" failure.
func (r *Repository) GetByTenant(ctx context.Context, tenantID string) (models.DatasetAssignment, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.GetByTenant")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "dataset_id", "state", "filters", "created_at", "updated_at")
	sb.From("dataset_assignments")
	sb.Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()
	var row assignmentRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusNotFound, "no dataset assigned to tenant")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get dataset assignment")
		return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get dataset assignment")
	}

	return row.toModel(), nil
}

// Upsert assigns a dataset to the tenant, replacing any previous
// assignment. Match results computed against a different dataset are
// dropped in the same transaction unless a human confirmed them, so a
// dataset swap never leaves stale unreviewed candidates behind.
func (r *Repository) Upsert(ctx context.Context, assignment models.DatasetAssignment) (models.DatasetAssignment, error) {
	ctx, span := tracing.StartSpan(ctx, "dataset.Repository.Upsert")
	defer span.End()

	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	ib := database.NewInsertBuilder()
	ib = ib.InsertInto("dataset_assignments")
	ib = ib.Cols("id", "tenant_id", "dataset_id", "state", "filters", "created_at", "updated_at")
	ib = ib.Values(
		assignment.ID, assignment.TenantID, assignment.DatasetID, assignment.State,
		database.JSONB[models.GeographicFilters]{Data: assignment.Filters},
		assignment.CreatedAt, assignment.UpdatedAt,
	)
	ub := ib.OnConflict("tenant_id")
	ub.Set(
		ub.Assign("dataset_id", database.Excluded("dataset_id")),
		ub.Assign("state", database.Excluded("state")),
		ub.Assign("filters", database.Excluded("filters")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": assignment.TenantID}).Error("Failed to upsert dataset assignment")
		return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to assign dataset")
	}

	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom("match_results")
	db.Where(
		db.Equal("tenant_id", assignment.TenantID),
		db.NotEqual("dataset_id", assignment.DatasetID),
		db.Equal("user_confirmed", false),
	)
	query, args = db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": assignment.TenantID}).Error("Failed to clear stale match results")
		return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to assign dataset")
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"tenant_id": assignment.TenantID}).Error("Failed to commit dataset assignment")
		return models.DatasetAssignment{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to assign dataset")
	}

	return assignment, nil
}
