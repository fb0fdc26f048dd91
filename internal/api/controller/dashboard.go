package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/dashboard"
)

func (c *Controller) GetDashboard(ctx echo.Context) error {
	view, err := dashboard.ParseView(ctx.QueryParam("view"))
	if err != nil {
		return err
	}

	resp, err := c.dashboard.View(ctx.Request().Context(), view)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) GetServiceStats(ctx echo.Context) error {
	view, err := dashboard.ParseView(ctx.QueryParam("view"))
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return constants.ErrBadRequest
	}

	stats, err := c.dashboard.ServiceStats(ctx.Request().Context(), view, id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, stats)
}

func (c *Controller) GetCategoryTotal(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return constants.ErrBadRequest
	}

	total, err := c.dashboard.CategoryTotal(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, total)
}

// StreamDashboard sends the current dashboard and then every recomputed one
// as Server-Sent Events until the client goes away.
func (c *Controller) StreamDashboard(ctx echo.Context) error {
	view, err := dashboard.ParseView(ctx.QueryParam("view"))
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	client, initial, err := c.dashboard.Subscribe(reqCtx, view)
	if err != nil {
		return err
	}
	defer c.dashboard.Hub().Unregister(client)

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err = writeEvent(w, dashboard.Message{Event: dashboard.EventDashboard, Data: initial}); err != nil {
		return nil
	}
	logger.Debugf(reqCtx, "stream client %s connected to %s", client.ID, view)

	for {
		select {
		case <-reqCtx.Done():
			logger.Debugf(reqCtx, "stream client %s disconnected", client.ID)
			return nil
		case msg := <-client.Outbound:
			if err = writeEvent(w, msg); err != nil {
				logger.Warnf(reqCtx, "stream client %s: %s", client.ID, err.Error())
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, msg dashboard.Message) error {
	payload, err := sonic.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Event, err)
	}

	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, payload); err != nil {
		return err
	}
	w.Flush()

	return nil
}
