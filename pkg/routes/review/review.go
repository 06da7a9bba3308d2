// Package review exposes the match review queue and override
// endpoints.
package review

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/matchresult"
	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/metrics"
	reviewpkg "github.com/Ramsey-B/fern/pkg/review"
)

// Register registers review routes.
func Register(g *echo.Group) {
	g.GET("", ListReviewQueue)
	g.GET("/stats", GetStats)
	g.POST("/:id/accept", AcceptCandidate)
	g.POST("/:id/reject", RejectAll)
}

// ListReviewQueue lists ambiguous results awaiting review, strongest
// candidates first.
func ListReviewQueue(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = parsed
	}
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
		}
		offset = parsed
	}

	ctx, repo, err := ectoinject.GetContext[*matchresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	records, err := repo.ListForReview(ctx, tenantID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

// GetStats returns aggregate match counts for the tenant, reflecting
// any review overrides.
func GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}

	ctx, repo, err := ectoinject.GetContext[*matchresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stats, err := repo.StatsByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// AcceptCandidateRequest names the candidate being confirmed.
type AcceptCandidateRequest struct {
	CandidateIndex int `json:"candidate_index" validate:"min=0"`
}

// AcceptCandidate confirms one candidate as the correct match for a
// result.
func AcceptCandidate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}
	id := c.Param("id")

	var req AcceptCandidateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*matchresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, reviewer, err := ectoinject.GetContext[*reviewpkg.Reviewer](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := reviewer.AcceptCandidate(&record.Result, req.CandidateIndex); err != nil {
		switch {
		case errors.Is(err, reviewpkg.ErrInvalidCandidateIndex):
			return httperror.NewHTTPError(http.StatusBadRequest, "candidate index out of range")
		case errors.Is(err, reviewpkg.ErrInvalidTransition):
			return httperror.NewHTTPError(http.StatusConflict, "status transition not allowed")
		default:
			return err
		}
	}

	reviewedBy := fernctx.GetUserID(ctx)
	if err := repo.SaveReview(ctx, tenantID, id, reviewedBy, record.Result); err != nil {
		return err
	}

	metrics.ReviewActionsTotal.WithLabelValues(tenantID, "accept").Inc()
	emitReviewed(ctx, tenantID, id, "accept", record, reviewedBy)

	return c.JSON(http.StatusOK, record)
}

// RejectAll marks a result as having no correct candidate.
func RejectAll(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := fernctx.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id header is required")
	}
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*matchresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, reviewer, err := ectoinject.GetContext[*reviewpkg.Reviewer](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	record, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := reviewer.RejectAll(&record.Result); err != nil {
		if errors.Is(err, reviewpkg.ErrInvalidTransition) {
			return httperror.NewHTTPError(http.StatusConflict, "status transition not allowed")
		}
		return err
	}

	reviewedBy := fernctx.GetUserID(ctx)
	if err := repo.SaveReview(ctx, tenantID, id, reviewedBy, record.Result); err != nil {
		return err
	}

	metrics.ReviewActionsTotal.WithLabelValues(tenantID, "reject").Inc()
	emitReviewed(ctx, tenantID, id, "reject", record, reviewedBy)

	return c.JSON(http.StatusOK, record)
}

// emitReviewed publishes the review event. Best-effort; a broker
// outage never fails the review.
func emitReviewed(ctx context.Context, tenantID, id, action string, record matchresult.Record, reviewedBy string) {
	ctx, emitter, err := ectoinject.GetContext[events.Emitter](ctx)
	if err != nil || emitter == nil {
		return
	}

	emitErr := emitter.EmitResultReviewed(ctx, events.ResultReviewedEvent{
		TenantID:   tenantID,
		ResultID:   id,
		PersonID:   record.Result.PersonEntry.ID,
		Action:     action,
		NewStatus:  record.Result.Status,
		ReviewedBy: reviewedBy,
	})
	if emitErr != nil {
		if ctx2, logger, err := ectoinject.GetContext[ectologger.Logger](ctx); err == nil && logger != nil {
			logger.WithContext(ctx2).WithError(emitErr).Warn("Failed to publish review event")
		}
	}
}
