// Package match exposes the batch matching and dataset assignment
// endpoints.
package match

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/dataset"
	"github.com/Ramsey-B/fern/internal/repositories/matchresult"
	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/review"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// Register registers matching routes.
func Register(g *echo.Group) {
	g.POST("", MatchBatch)
	g.GET("/dataset", GetDataset)
	g.PUT("/dataset", AssignDataset)
}

// MatchBatchRequest is the batch matching request body.
type MatchBatchRequest struct {
	Entries []models.PersonEntry `json:"entries" validate:"required,min=1,dive"`
}

// MatchBatchResult is the batch matching response body.
type MatchBatchResult struct {
	models.BatchMatchResponse
	Stats models.BatchStats `json:"stats"`
}

// MatchBatch matches a batch of person entries against the tenant's
// assigned dataset.
func MatchBatch(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}

	if ctx2, limiter, err := ectoinject.GetContext[*redis.RateLimiter](ctx); err == nil && limiter != nil {
		ctx = ctx2
		allowed, _ := limiter.Allow(ctx, tenantID)
		if !allowed {
			return httperror.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
	}

	var req MatchBatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := validation.Validate(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, datasetRepo, err := ectoinject.GetContext[*dataset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	assignment, err := datasetRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	ctx, engine, err := ectoinject.GetContext[*matching.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	response, err := engine.MatchBatch(ctx, tenantID, assignment, req.Entries)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrBatchTooLarge):
			return httperror.NewHTTPError(http.StatusBadRequest, "batch exceeds maximum size")
		case errors.Is(err, matching.ErrDatasetUnavailable):
			return httperror.NewHTTPError(http.StatusServiceUnavailable, "voter dataset unavailable")
		default:
			return err
		}
	}

	ctx, resultRepo, err := ectoinject.GetContext[*matchresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := resultRepo.SaveBatch(ctx, tenantID, assignment.DatasetID, response.Results); err != nil {
		return err
	}

	stats := review.RecomputeStats(response.Results)

	if ctx2, emitter, err := ectoinject.GetContext[events.Emitter](ctx); err == nil && emitter != nil {
		// Event emission is best-effort; a broker outage never fails the
		// request.
		_ = emitter.EmitBatchCompleted(ctx2, events.BatchCompletedEvent{
			TenantID:  tenantID,
			DatasetID: assignment.DatasetID,
			Stats:     stats,
			Skipped:   response.SkippedCount,
		})
	}

	return c.JSON(http.StatusOK, MatchBatchResult{
		BatchMatchResponse: *response,
		Stats:              stats,
	})
}

// GetDataset returns the tenant's current dataset assignment.
func GetDataset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}

	ctx, repo, err := ectoinject.GetContext[*dataset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	assignment, err := repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assignment)
}

// AssignDatasetRequest is the dataset assignment request body.
type AssignDatasetRequest struct {
	DatasetID string                   `json:"dataset_id" validate:"required"`
	State     string                   `json:"state" validate:"required,len=2,alpha"`
	Filters   models.GeographicFilters `json:"filters"`
}

// AssignDataset assigns a voter dataset to the tenant, replacing any
// previous assignment.
func AssignDataset(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}

	var req AssignDatasetRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := validation.Validate(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*dataset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	assignment, err := repo.Upsert(ctx, models.DatasetAssignment{
		TenantID:  tenantID,
		DatasetID: req.DatasetID,
		State:     req.State,
		Filters:   req.Filters,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assignment)
}
