package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance", jwt, staffMiddleware())
	ag.POST("", api.mark)
	ag.POST("/bulk", api.bulkMark)
	ag.GET("/student/:id", api.byStudent)
	ag.GET("/student/:id/summary", api.studentSummary)
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Mark(data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) bulkMark(ctx echo.Context) error {
	var data attendance.BulkMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMark")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	recs, err := api.svc.BulkMark(data)
	if err != nil {
		return errors.Wrap(err, "bulk-marking attendance")
	}
	return ctx.JSON(http.StatusCreated, recs)
}

func (api *attendanceApi) byStudent(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	from, to := dateRange(ctx)

	recs, err := api.svc.ByStudent(id, from, to)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	from, to := dateRange(ctx)

	sum, err := api.svc.StudentSummary(id, from, to)
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// dateRange parses the optional from/to query params (2006-01-02).
func dateRange(ctx echo.Context) (from, to time.Time) {
	if v := ctx.QueryParam("from"); v != "" {
		from, _ = time.Parse("2006-01-02", v)
	}
	if v := ctx.QueryParam("to"); v != "" {
		to, _ = time.Parse("2006-01-02", v)
	}
	return from, to
}
