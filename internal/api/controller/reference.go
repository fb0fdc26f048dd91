package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
)

func (c *Controller) ListCategories(ctx echo.Context) error {
	categories, err := c.reference.ListCategories(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, categories)
}

func (c *Controller) ListServices(ctx echo.Context) error {
	services, err := c.reference.ListServices(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, services)
}

func (c *Controller) ListServicesByCategory(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return constants.ErrBadRequest
	}

	services, err := c.reference.ListServicesByCategory(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, services)
}

func (c *Controller) GetService(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return constants.ErrBadRequest
	}

	svc, err := c.reference.GetService(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, svc)
}
