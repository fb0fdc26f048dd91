package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain/dto"
)

func (c *Controller) ListSubmissions(ctx echo.Context) error {
	items, err := c.submission.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, items)
}

func (c *Controller) CreateSubmission(ctx echo.Context) error {
	var req dto.CreateSubmissionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	created, err := c.submission.Create(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, created)
}

func (c *Controller) UpdateSubmission(ctx echo.Context) error {
	var req dto.UpdateSubmissionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.submission.Update(ctx.Request().Context(), req); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) VerifySubmission(ctx echo.Context) error {
	var req dto.SubmissionIDRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.submission.Verify(ctx.Request().Context(), req.ID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) DeleteSubmission(ctx echo.Context) error {
	var req dto.SubmissionIDRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.submission.Delete(ctx.Request().Context(), req.ID); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) GetSubmission(ctx echo.Context) error {
	var req dto.SubmissionIDRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	sub, err := c.submission.Get(ctx.Request().Context(), req.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, sub)
}
