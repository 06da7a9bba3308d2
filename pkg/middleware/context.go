// Package middleware provides the echo middleware stack shared by all
// routes.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
)

const (
	// HeaderTenantID identifies the campaign tenant making the request.
	HeaderTenantID = "X-Tenant-ID"
	// HeaderUserID identifies the acting user for review attribution.
	HeaderUserID = "X-User-ID"
)

// Context copies request identity headers onto the request context so
// downstream code never touches echo directly.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = fernctx.SetRequestID(ctx, requestID)
			ctx = fernctx.SetMethod(ctx, req.Method)
			ctx = fernctx.SetRoute(ctx, req.URL.Path)
			ctx = fernctx.SetRemoteIP(ctx, c.RealIP())
			ctx = fernctx.SetTenantID(ctx, req.Header.Get(HeaderTenantID))
			ctx = fernctx.SetUserID(ctx, req.Header.Get(HeaderUserID))

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
