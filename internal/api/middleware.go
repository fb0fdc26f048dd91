package api

import (
	"github.com/labstack/echo/v4"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
)

// RequestContextMiddleware attaches the request id to the request context so
// that every log line written while serving it carries the id.
func (svc *APIService) RequestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Response().Header().Get(echo.HeaderXRequestID)
		if id == "" {
			id = ctx.Request().Header.Get(echo.HeaderXRequestID)
		}

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithFields(req.Context(), constants.CtxKeyRequestID, id)))
		ctx.Set(constants.CtxKeyRequestID, id)

		return next(ctx)
	}
}
